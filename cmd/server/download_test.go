package main

import (
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
)

func (s *ServerTestSuite) Test_DownloadRequiresLogin() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/download/", nil)
	s.Require().NoError(err, "failed to construct http request")

	res := doRequest(s.T(), req)

	s.Equal(http.StatusFound, res.code, "incorrect status code")
	s.Equal("/admin/login/", res.header.Get("Location"), "redirects to the login form")
}

func (s *ServerTestSuite) Test_DownloadAll() {
	s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})
	s.seedResult("reaction-time", "participant-3", 3725, map[string]string{
		"latency": "250ms",
	})

	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/download/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Require().Equal(http.StatusOK, res.code, "incorrect status code")
	s.Equal(
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		res.header.Get("Content-Type"),
	)
	s.Contains(res.header.Get("Content-Disposition"), "report.xlsx")

	workbook, err := excelize.OpenReader(strings.NewReader(res.body))
	s.Require().NoError(err, "response is not a valid workbook")
	defer workbook.Close()

	s.Equal([]string{"memory-span", "reaction-time"}, workbook.GetSheetList())

	name, err := workbook.GetCellValue("memory-span", "A2")
	s.Require().NoError(err)
	s.Equal("participant-17", name)

	duration, err := workbook.GetCellValue("memory-span", "D2")
	s.Require().NoError(err)
	s.Equal("0:02:00", duration)

	duration, err = workbook.GetCellValue("reaction-time", "D2")
	s.Require().NoError(err)
	s.Equal("1:02:05", duration)
}

func (s *ServerTestSuite) Test_DownloadProject() {
	s.seedResult("memory-span", "participant-17", 120, map[string]string{
		"focus":  "42",
		"stress": "low",
	})
	s.seedResult("reaction-time", "participant-3", 3725, map[string]string{
		"latency": "250ms",
	})

	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/download/memory-span/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Require().Equal(http.StatusOK, res.code, "incorrect status code")

	workbook, err := excelize.OpenReader(strings.NewReader(res.body))
	s.Require().NoError(err, "response is not a valid workbook")
	defer workbook.Close()

	s.Equal([]string{"memory-span"}, workbook.GetSheetList(), "only the requested project")
}

func (s *ServerTestSuite) Test_DownloadProjectUnknown() {
	cookie := s.mustLogin()

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/download/no-such-project/", nil)
	s.Require().NoError(err, "failed to construct http request")
	req.AddCookie(cookie)

	res := doRequest(s.T(), req)

	s.Equal(http.StatusNotFound, res.code, "incorrect status code")
}
