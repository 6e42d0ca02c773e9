package golfnow

import (
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/playgolfspainnow/chat-api/internal/domain/golf"
)

func newCatalogClient(t *testing.T, affiliateID string) *Client {
	t.Helper()

	client, err := NewClient(Config{AffiliateID: affiliateID}, zerolog.Nop())
	require.NoError(t, err)
	require.False(t, client.live, "no credentials means catalog mode")
	return client
}

func TestSearchCourses_CatalogFiltering(t *testing.T) {
	client := newCatalogClient(t, "")
	ctx := context.Background()

	all, err := client.SearchCourses(ctx, golf.CourseSearchParams{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byLocation, err := client.SearchCourses(ctx, golf.CourseSearchParams{Location: "sotogrande"})
	require.NoError(t, err)
	require.NotEmpty(t, byLocation)
	for _, course := range byLocation {
		require.Contains(t, course.BookingURL, "golfnow.com", "catalog courses get a booking URL")
	}

	byName, err := client.SearchCourses(ctx, golf.CourseSearchParams{CourseName: "Valderrama"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "valderrama", byName[0].ID)

	none, err := client.SearchCourses(ctx, golf.CourseSearchParams{Location: "Scotland"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSearchCourses_AffiliateTracking(t *testing.T) {
	client := newCatalogClient(t, "aff-42")

	courses, err := client.SearchCourses(context.Background(), golf.CourseSearchParams{})
	require.NoError(t, err)
	for _, course := range courses {
		require.Contains(t, course.BookingURL, "affiliate_id=aff-42")
	}
}

func TestGetAvailableTeeTimes_Catalog(t *testing.T) {
	client := newCatalogClient(t, "")
	ctx := context.Background()

	slots, err := client.GetAvailableTeeTimes(ctx, "valderrama", "2026-09-01", 0)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	for _, slot := range slots {
		require.True(t, slot.Available)
		require.Equal(t, 4, slot.Players, "players defaults to 4")
		require.Equal(t, "EUR", slot.Currency)
	}
	// Prices shift around the course base rate by time of day.
	require.Equal(t, "08:00", slots[0].Time)
	require.Greater(t, slots[2].Price, slots[0].Price)
	require.Less(t, slots[4].Price, slots[0].Price)

	_, err = client.GetAvailableTeeTimes(ctx, "st-andrews", "2026-09-01", 2)
	require.Error(t, err)
}

func TestBookTeeTime_Catalog(t *testing.T) {
	client := newCatalogClient(t, "")

	confirmation, err := client.BookTeeTime(context.Background(), golf.BookingRequest{
		CourseID:    "valderrama",
		CourseName:  "Real Club Valderrama",
		PlayDate:    "2026-09-01",
		TeeTime:     "09:00",
		PlayerCount: 2,
		UserName:    "Ana",
		UserEmail:   "ana@example.com",
	})
	require.NoError(t, err)

	require.Equal(t, "confirmed", confirmation.Status)
	require.Equal(t, "Real Club Valderrama", confirmation.CourseName)
	require.Regexp(t, regexp.MustCompile(`^GN\d{8}[A-Z0-9]{4}$`), confirmation.ConfirmationNumber)
	// 09:00 slot is base price + 20, times two players.
	require.Equal(t, 740.0, confirmation.TotalPrice)
	require.Equal(t, "EUR", confirmation.Currency)
}

func TestCatalogCourseByID(t *testing.T) {
	client := newCatalogClient(t, "")

	course, err := client.GetCourseByID(context.Background(), "finca-cortesin")
	require.NoError(t, err)
	require.NotNil(t, course)
	require.Equal(t, "Finca Cortesin", course.Name)

	missing, err := client.GetCourseByID(context.Background(), "augusta")
	require.NoError(t, err)
	require.Nil(t, missing)
}
