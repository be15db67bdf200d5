package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spot-rental-api/internal/logger"
	"spot-rental-api/internal/snapshot"
)

func TestAdminStats(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.createUser(t, "owner")
	s.createSpot(t, owner.ID, "A")
	s.createSpot(t, owner.ID, "B")

	rec := s.do(t, http.MethodGet, "/admin/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	counts := body["counts"].(map[string]interface{})
	assert.Equal(t, float64(2), counts["spots"])
	assert.Equal(t, float64(1), counts["users"])
	assert.Contains(t, body, "top_cities")
	assert.Contains(t, body, "rate_limit")
}

func TestAdminStatsRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSpotHistory(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.createUser(t, "owner")
	spot := s.createSpot(t, owner.ID, "Tracked")

	_, err := snapshot.NewService(s.db, logger.Nop()).SnapshotAll()
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/admin/spots/%d/history", spot.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(spot.ID), body["spotId"])
	assert.Equal(t, float64(1), body["count"])

	rec = s.do(t, http.MethodGet, "/admin/spots/9999/history", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Spot couldn't be found", decodeBody(t, rec)["message"])
}

func TestAdminDeleteLogs(t *testing.T) {
	s := newTestServer(t)
	owner, token := s.createUser(t, "owner")
	spot := s.createSpot(t, owner.ID, "Doomed")

	rec := s.do(t, http.MethodDelete, fmt.Sprintf("/spots/%d", spot.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/admin/delete-logs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	logs := body["logs"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, "Doomed", logs[0].(map[string]interface{})["name"])
}

func TestSearchDisabled(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/spots/search?q=cabin", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Search is not enabled", decodeBody(t, rec)["message"])
}
