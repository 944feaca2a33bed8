package main

import (
	"net/http"
)

func (s *ServerTestSuite) Test_ViewResultsRequiresLogin() {
	for _, path := range []string{
		"/admin/view-results/",
		"/admin/view-results/memory-span/",
	} {
		s.Run(path, func() {
			req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
			s.Require().NoError(err, "failed to construct http request")

			res := doRequest(s.T(), req)

			s.Equal(http.StatusFound, res.code, "incorrect status code")
			s.Equal("/admin/login/", res.header.Get("Location"), "redirects to the login form")
		})
	}
}

func (s *ServerTestSuite) Test_ViewProject() {
	s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})

	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/admin/view-results/memory-span/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Equal(http.StatusOK, res.code, "incorrect status code")
	s.Contains(res.body, "memory-span", "page names the project")
	s.Contains(res.body, "participant-17", "row shows the submitter")
	s.Contains(res.body, "0:02:00", "duration rendered as clock time")
	s.Contains(res.body, "42", "parameter value rendered")
	s.Contains(res.body, `name="csrf_token"`, "delete form carries a token")
	s.Contains(
		res.body,
		`action="/api/results/memory-span/delete/"`,
		"delete form posts to the project endpoint",
	)
}

func (s *ServerTestSuite) Test_ViewProjectUnknown() {
	cookie := s.mustLogin()

	req, err := http.NewRequest(
		http.MethodGet,
		s.server.URL+"/admin/view-results/no-such-project/",
		nil,
	)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Equal(http.StatusNotFound, res.code, "incorrect status code")
}

func (s *ServerTestSuite) Test_ViewAll() {
	s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})
	s.seedResult("reaction-time", "participant-3", 3725, map[string]string{
		"latency": "250ms",
	})

	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/admin/view-results/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Equal(http.StatusOK, res.code, "incorrect status code")
	s.Contains(res.body, "memory-span", "first project rendered")
	s.Contains(res.body, "reaction-time", "second project rendered")
	s.Contains(res.body, "1:02:05", "long duration rendered with unpadded hours")
}
