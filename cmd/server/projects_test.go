package main

import (
	"encoding/json"
	"net/http"
	"os"
)

func (s *ServerTestSuite) Test_UpdateProjects() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/update-projects/", nil)
	s.Require().NoError(err, "failed to construct http request")

	res := doRequest(s.T(), req)

	s.Equal(http.StatusOK, res.code, "incorrect status code")

	var body struct {
		Projects []string `json:"projects"`
	}
	s.Require().NoError(json.Unmarshal([]byte(res.body), &body))
	s.Equal([]string{"memory-span", "reaction-time"}, body.Projects)
}

func (s *ServerTestSuite) Test_UpdateProjectsPicksUpManifestChanges() {
	manifestPath := s.manifestPath

	original, err := os.ReadFile(manifestPath)
	s.Require().NoError(err, "failed to read manifest")
	defer func() {
		s.Require().NoError(os.WriteFile(manifestPath, original, 0o600))
		s.Require().NoError(s.manifest.Reload(s.T().Context()))
	}()

	updated := string(original) + "word-recall:\n  - accuracy\n"
	s.Require().NoError(os.WriteFile(manifestPath, []byte(updated), 0o600))

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/update-projects/", nil)
	s.Require().NoError(err, "failed to construct http request")

	res := doRequest(s.T(), req)

	s.Equal(http.StatusOK, res.code, "incorrect status code")

	var body struct {
		Projects []string `json:"projects"`
	}
	s.Require().NoError(json.Unmarshal([]byte(res.body), &body))
	s.Equal([]string{"memory-span", "reaction-time", "word-recall"}, body.Projects)
}

func (s *ServerTestSuite) Test_UpdateProjectsKeepsSnapshotOnBadManifest() {
	manifestPath := s.manifestPath

	original, err := os.ReadFile(manifestPath)
	s.Require().NoError(err, "failed to read manifest")
	defer func() {
		s.Require().NoError(os.WriteFile(manifestPath, original, 0o600))
		s.Require().NoError(s.manifest.Reload(s.T().Context()))
	}()

	s.Require().NoError(os.WriteFile(manifestPath, []byte("not: [valid"), 0o600))

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/update-projects/", nil)
	s.Require().NoError(err, "failed to construct http request")

	res := doRequest(s.T(), req)

	s.Equal(http.StatusInternalServerError, res.code, "incorrect status code")
	s.True(s.manifest.Current().Has("memory-span"), "previous snapshot still serves")
}
