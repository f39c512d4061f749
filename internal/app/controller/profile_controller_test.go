package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileController_Show(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	order := createTestOrder(t, env.db, env.user.ID, model.OrderStatusDelivered, time.Now())
	require.NoError(t, env.db.Create(&model.Address{
		UserID: env.user.ID, Name: "Home", Street: "1 Main St", City: "Toronto", Country: "Canada", IsDefault: true,
	}).Error)

	w := env.get(t, ProfilePath, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "jane@example.com")
	assert.Contains(t, body, "Not set")
	assert.Contains(t, body, "1 Main St")
	assert.Contains(t, body, order.OrderNumber)
}

func TestProfileController_UpdateProfile_JaneDoe(t *testing.T) {
	env := setupControllerTest(t)
	require.NoError(t, env.db.Model(env.user).Updates(map[string]interface{}{
		"first_name": "Old", "last_name": "Name", "phone": "555-0100",
	}).Error)
	cookie := env.signIn(t, env.user)
	token := env.csrfToken(t, ProfilePath, cookie)

	w := env.post(t, ProfilePath, url.Values{
		"csrf_token": {token},
		"action":     {"update_profile"},
		"first_name": {"Jane"},
		"last_name":  {"Doe"},
		"phone":      {""},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, ProfilePath, w.Header().Get("Location"))

	var reloaded model.User
	require.NoError(t, env.db.First(&reloaded, env.user.ID).Error)
	assert.Equal(t, "Jane", reloaded.FirstName)
	assert.Equal(t, "Doe", reloaded.LastName)
	assert.Empty(t, reloaded.Phone)

	next := env.get(t, ProfilePath, cookie)
	body := next.Body.String()
	assert.Contains(t, body, "Your profile has been updated.")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Not set")
	assert.Contains(t, body, "Signed in as Jane Doe")
}

func TestProfileController_UpdateProfile_Invalid(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	token := env.csrfToken(t, ProfilePath, cookie)

	w := env.post(t, ProfilePath, url.Values{
		"csrf_token": {token},
		"action":     {"update_profile"},
		"first_name": {"<b></b>"},
		"last_name":  {"Smith"},
		"phone":      {"call me"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	var reloaded model.User
	require.NoError(t, env.db.First(&reloaded, env.user.ID).Error)
	assert.Equal(t, "Doe", reloaded.LastName)

	next := env.get(t, ProfilePath, cookie)
	assert.Contains(t, next.Body.String(), "alert-warning")
}

func TestProfileController_UpdateProfile_RequiresCSRF(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)

	w := env.post(t, ProfilePath, url.Values{
		"action":     {"update_profile"},
		"first_name": {"Mallory"},
		"last_name":  {"Evil"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	var reloaded model.User
	require.NoError(t, env.db.First(&reloaded, env.user.ID).Error)
	assert.Equal(t, "Jane", reloaded.FirstName)
}

func TestProfileController_SetDefaultAddress(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	stranger := createTestUser(t, env.db, "stranger@example.com")

	home := &model.Address{UserID: env.user.ID, Name: "Home", Street: "1 Main St", City: "Toronto", Country: "Canada", IsDefault: true}
	office := &model.Address{UserID: env.user.ID, Name: "Office", Street: "2 King St", City: "Toronto", Country: "Canada"}
	theirs := &model.Address{UserID: stranger.ID, Name: "Theirs", Street: "3 Queen St", City: "Toronto", Country: "Canada"}
	require.NoError(t, env.db.Create(home).Error)
	require.NoError(t, env.db.Create(office).Error)
	require.NoError(t, env.db.Create(theirs).Error)
	token := env.csrfToken(t, ProfilePath, cookie)

	w := env.post(t, ProfilePath, url.Values{
		"csrf_token": {token},
		"action":     {"set_default_address"},
		"address_id": {fmt.Sprint(office.ID)},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	var reloaded model.Address
	require.NoError(t, env.db.First(&reloaded, office.ID).Error)
	assert.True(t, reloaded.IsDefault)
	require.NoError(t, env.db.First(&reloaded, home.ID).Error)
	assert.False(t, reloaded.IsDefault)

	env.post(t, ProfilePath, url.Values{
		"csrf_token": {token},
		"action":     {"set_default_address"},
		"address_id": {fmt.Sprint(theirs.ID)},
	}, cookie)
	require.NoError(t, env.db.First(&reloaded, theirs.ID).Error)
	assert.False(t, reloaded.IsDefault)
	require.NoError(t, env.db.First(&reloaded, office.ID).Error)
	assert.True(t, reloaded.IsDefault)
}

func TestProfileController_UnknownAction(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	token := env.csrfToken(t, ProfilePath, cookie)

	w := env.post(t, ProfilePath, url.Values{"csrf_token": {token}, "action": {"delete_account"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, ProfilePath, w.Header().Get("Location"))
}

func TestProfileController_ButtonFieldsSelectAction(t *testing.T) {
	env := setupControllerTest(t)
	cookie := env.signIn(t, env.user)
	home := &model.Address{UserID: env.user.ID, Name: "Home", Street: "1 Main St", City: "Toronto", Country: "Canada", IsDefault: true}
	office := &model.Address{UserID: env.user.ID, Name: "Office", Street: "2 King St", City: "Toronto", Country: "Canada"}
	require.NoError(t, env.db.Create(home).Error)
	require.NoError(t, env.db.Create(office).Error)

	page := env.get(t, ProfilePath, cookie).Body.String()
	assert.Contains(t, page, `name="update_profile"`)
	assert.Contains(t, page, `name="set_default_address"`)
	token := env.csrfToken(t, ProfilePath, cookie)

	w := env.post(t, ProfilePath, url.Values{
		"csrf_token":     {token},
		"update_profile": {"1"},
		"first_name":     {"Jane"},
		"last_name":      {"Doe"},
		"phone":          {""},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	var user model.User
	require.NoError(t, env.db.First(&user, env.user.ID).Error)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)

	env.post(t, ProfilePath, url.Values{
		"csrf_token":          {token},
		"set_default_address": {"1"},
		"address_id":          {fmt.Sprint(office.ID)},
	}, cookie)

	var reloaded model.Address
	require.NoError(t, env.db.First(&reloaded, office.ID).Error)
	assert.True(t, reloaded.IsDefault)
}
