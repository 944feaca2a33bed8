package main

import (
	"net/http"

	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
)

func (s *ServerTestSuite) Test_LoginForm() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/admin/login/", nil)
	s.Require().NoError(err, "failed to construct http request")

	res := doRequest(s.T(), req)

	s.Equal(http.StatusOK, res.code, "incorrect status code")
	s.Contains(res.body, `name="password"`, "login form has a password field")
	s.NotContains(res.body, "Неверный пароль", "no error on a fresh form")
}

func (s *ServerTestSuite) Test_LoginWrongPassword() {
	res, cookie := s.login("not the password")

	s.Equal(http.StatusOK, res.code, "incorrect status code")
	s.Contains(res.body, "Неверный пароль", "failure re-renders the form with an error")
	s.Nil(cookie, "no session issued on failure")
}

func (s *ServerTestSuite) Test_LoginDefaultPasswordCreatesAdmin() {
	var admin models.Admin
	err := s.tx.Where("username = ?", models.AdminUsername).First(&admin).Error
	s.Require().ErrorIs(err, gorm.ErrRecordNotFound, "no admin row before first login")

	res, cookie := s.login(adminPassword)

	s.Equal(http.StatusFound, res.code, "incorrect status code")
	s.Equal(
		"/admin/view-results/memory-span/",
		res.header.Get("Location"),
		"redirects to the first project",
	)
	s.Require().NotNil(cookie, "session issued on success")

	err = s.tx.Where("username = ?", models.AdminUsername).First(&admin).Error
	s.Require().NoError(err, "admin row created on first login")

	match, err := argon2id.ComparePasswordAndHash(adminPassword, admin.PasswordHash)
	s.Require().NoError(err, "failed to compare stored hash")
	s.True(match, "stored hash matches the default password")
}

func (s *ServerTestSuite) Test_LoginUsesStoredHash() {
	// first login seeds the admin row, second must verify against it
	_, cookie := s.login(adminPassword)
	s.Require().NotNil(cookie, "first login succeeds")

	_, cookie = s.login(adminPassword)
	s.NotNil(cookie, "second login verifies against the stored hash")

	res, cookie := s.login("not the password")
	s.Equal(http.StatusOK, res.code, "incorrect status code")
	s.Nil(cookie, "wrong password still refused once the row exists")
}

func (s *ServerTestSuite) Test_Logout() {
	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/admin/logout/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Equal(http.StatusFound, res.code, "incorrect status code")
	s.Equal("/admin/login/", res.header.Get("Location"), "redirects back to the login form")

	expired := sessionCookie(res.cookies)
	s.Require().NotNil(expired, "logout rewrites the session cookie")
	s.Less(expired.MaxAge, 0, "session cookie is expired")
}
