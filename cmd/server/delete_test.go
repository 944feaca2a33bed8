package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/psytestlab/results-api/cmd/server/internal/models"
)

func (s *ServerTestSuite) deleteResults(cookie *http.Cookie, project string, form url.Values) *resp {
	req, err := http.NewRequest(
		http.MethodPost,
		fmt.Sprintf("%s/api/results/%s/delete/", s.server.URL, project),
		strings.NewReader(form.Encode()),
	)
	s.Require().NoError(err, "failed to construct http request")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	return doRequest(s.T(), req)
}

func (s *ServerTestSuite) Test_DeleteRequiresLogin() {
	res := s.deleteResults(nil, "memory-span", url.Values{"result_id": {"1"}})

	s.Equal(http.StatusFound, res.code, "incorrect status code")
	s.Equal("/admin/login/", res.header.Get("Location"), "redirects to the login form")
}

func (s *ServerTestSuite) Test_DeleteCascades() {
	keep := s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})
	doomed := s.seedResult("memory-span", "participant-9", 90, map[string]string{
		"focus":  "7",
		"stress": "high",
	})

	cookie := s.mustLogin()

	form := url.Values{
		"result_id":  {fmt.Sprint(doomed.ID)},
		"csrf_token": {"f00dfeed"},
	}
	res := s.deleteResults(cookie, "memory-span", form)

	s.Equal(http.StatusSeeOther, res.code, "incorrect status code")
	s.Equal(
		"/admin/view-results/memory-span/",
		res.header.Get("Location"),
		"redirects back to the project view",
	)

	results, err := models.ResultsByProject(s.T().Context(), s.tx, "memory-span")
	s.Require().NoError(err, "failed to query results")
	s.Require().Len(results, 1, "only the kept result remains")
	s.Equal(keep.ID, results[0].ID)

	var orphans int64
	err = s.tx.Model(&models.TestResultParameter{}).
		Where("result_id = ?", doomed.ID).
		Count(&orphans).Error
	s.Require().NoError(err, "failed to count parameters")
	s.Zero(orphans, "parameters removed by the cascade")
}

func (s *ServerTestSuite) Test_DeleteSelection() {
	first := s.seedResult("reaction-time", "participant-1", 60, map[string]string{"latency": "100ms"})
	second := s.seedResult("reaction-time", "participant-2", 61, map[string]string{"latency": "110ms"})
	third := s.seedResult("reaction-time", "participant-3", 62, map[string]string{"latency": "120ms"})

	cookie := s.mustLogin()

	form := url.Values{
		"result_id":  {fmt.Sprint(first.ID), fmt.Sprint(third.ID)},
		"csrf_token": {"f00dfeed"},
	}
	res := s.deleteResults(cookie, "reaction-time", form)

	s.Equal(http.StatusSeeOther, res.code, "incorrect status code")

	results, err := models.ResultsByProject(s.T().Context(), s.tx, "reaction-time")
	s.Require().NoError(err, "failed to query results")
	s.Require().Len(results, 1, "both selected results deleted")
	s.Equal(second.ID, results[0].ID)
}

func (s *ServerTestSuite) Test_DeleteUnknownIDs() {
	kept := s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})

	cookie := s.mustLogin()

	form := url.Values{
		"result_id":  {"999999", "not-a-number"},
		"csrf_token": {"f00dfeed"},
	}
	res := s.deleteResults(cookie, "memory-span", form)

	s.Equal(http.StatusSeeOther, res.code, "incorrect status code")

	results, err := models.ResultsByProject(s.T().Context(), s.tx, "memory-span")
	s.Require().NoError(err, "failed to query results")
	s.Require().Len(results, 1, "existing result untouched")
	s.Equal(kept.ID, results[0].ID)
}

func (s *ServerTestSuite) Test_DeleteEmptySelection() {
	s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})

	cookie := s.mustLogin()

	res := s.deleteResults(cookie, "memory-span", url.Values{"csrf_token": {"f00dfeed"}})

	s.Equal(http.StatusSeeOther, res.code, "incorrect status code")

	results, err := models.ResultsByProject(s.T().Context(), s.tx, "memory-span")
	s.Require().NoError(err, "failed to query results")
	s.Len(results, 1, "nothing deleted")
}
