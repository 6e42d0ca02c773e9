package golfnow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/playgolfspainnow/chat-api/internal/domain/golf"
)

// Config carries the GolfNow affiliate API credentials. The API
// authenticates with UserName/Password headers, not API keys.
type Config struct {
	Username    string
	Password    string
	ChannelID   string
	AffiliateID string
	BaseURL     string
	Timeout     time.Duration
}

// Client implements golf.Client against the GolfNow affiliate REST API.
// Without credentials it answers from the bundled catalog so the chat flow
// stays usable in development and demos.
type Client struct {
	cfg        Config
	httpClient *resty.Client
	catalog    *catalog
	live       bool
	log        zerolog.Logger
}

// NewClient constructs the booking-provider client.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	live := cfg.Username != "" && cfg.Password != "" && cfg.ChannelID != ""

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetHeader("Accept", "application/json").
		SetHeader("AdvancedErrorCodes", "True")
	if live {
		httpClient.SetHeader("UserName", cfg.Username)
		httpClient.SetHeader("Password", cfg.Password)
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		catalog:    cat,
		live:       live,
		log:        log.With().Str("component", "golfnow").Bool("live", live).Logger(),
	}, nil
}

var _ golf.Client = (*Client)(nil)

// SearchCourses queries the channel facilities endpoint. On a live API
// failure the bundled catalog answers instead, so a provider outage degrades
// to stale data rather than an empty chat.
func (c *Client) SearchCourses(ctx context.Context, params golf.CourseSearchParams) ([]golf.Course, error) {
	if !c.live {
		return c.withBookingURLs(c.catalog.searchCourses(params)), nil
	}

	query := map[string]string{
		"expand": "FacilityDetail.Ratesets",
	}
	if params.Location != "" {
		query["q"] = params.Location
	}
	if params.Date != "" {
		query["playDate"] = params.Date
	}
	if params.Players > 0 {
		query["players"] = strconv.Itoa(params.Players)
	}

	var payload struct {
		Facilities []facility `json:"facilities"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&payload).
		Get("/channel/" + c.cfg.ChannelID + "/facilities")
	if err != nil || resp.IsError() {
		c.log.Warn().Err(err).Msg("facility search failed, serving catalog")
		return c.withBookingURLs(c.catalog.searchCourses(params)), nil
	}

	return c.withBookingURLs(transformFacilities(payload.Facilities)), nil
}

// GetCourseByID fetches one facility.
func (c *Client) GetCourseByID(ctx context.Context, courseID string) (*golf.Course, error) {
	if !c.live {
		return c.catalog.courseByID(courseID), nil
	}

	var payload facility
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/facilities/" + courseID)
	if err != nil || resp.IsError() {
		c.log.Warn().Err(err).Str("course_id", courseID).Msg("facility lookup failed, serving catalog")
		return c.catalog.courseByID(courseID), nil
	}

	courses := transformFacilities([]facility{payload})
	if len(courses) == 0 {
		return nil, nil
	}
	return &courses[0], nil
}

// GetAvailableTeeTimes fetches bookable slots for a course and date.
func (c *Client) GetAvailableTeeTimes(ctx context.Context, courseID, date string, players int) ([]golf.TeeTimeSlot, error) {
	if players <= 0 {
		players = 4
	}

	if !c.live {
		course := c.catalog.courseByID(courseID)
		if course == nil {
			return nil, fmt.Errorf("course not found: %s", courseID)
		}
		return c.catalog.teeTimes(course, players), nil
	}

	var payload struct {
		TeeTimes []teeTime `json:"teeTimes"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"facilityId": courseID,
			"playDate":   date,
			"players":    strconv.Itoa(players),
		}).
		SetResult(&payload).
		Get("/tee-times")
	if err != nil {
		return nil, fmt.Errorf("fetch tee times: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch tee times: %s", resp.Status())
	}

	return transformTeeTimes(payload.TeeTimes), nil
}

// BookTeeTime confirms a booking with the provider. Unlike search, a failure
// here is propagated: the user must never see a fabricated confirmation.
func (c *Client) BookTeeTime(ctx context.Context, req golf.BookingRequest) (*golf.BookingConfirmation, error) {
	if !c.live {
		return c.catalog.book(req), nil
	}

	payload := map[string]any{
		"facilityId": req.CourseID,
		"playDate":   req.PlayDate,
		"teeTime":    req.TeeTime,
		"players":    req.PlayerCount,
		"customer": map[string]string{
			"name":  req.UserName,
			"email": req.UserEmail,
		},
		"affiliateId": c.cfg.AffiliateID,
	}

	var booking struct {
		BookingID          string  `json:"bookingId"`
		Status             string  `json:"status"`
		ConfirmationNumber string  `json:"confirmationNumber"`
		TotalPrice         float64 `json:"totalPrice"`
		Currency           string  `json:"currency"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&booking).
		Post("/bookings")
	if err != nil {
		return nil, fmt.Errorf("book tee time: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("book tee time: %s %s", resp.Status(), resp.String())
	}

	status := booking.Status
	if status == "" {
		status = "confirmed"
	}
	currency := booking.Currency
	if currency == "" {
		currency = "EUR"
	}

	return &golf.BookingConfirmation{
		BookingID:          booking.BookingID,
		ConfirmationNumber: booking.ConfirmationNumber,
		CourseName:         req.CourseName,
		PlayDate:           req.PlayDate,
		TeeTime:            req.TeeTime,
		TotalPrice:         booking.TotalPrice,
		Currency:           currency,
		Status:             status,
	}, nil
}

func (c *Client) withBookingURLs(courses []golf.Course) []golf.Course {
	for i := range courses {
		if courses[i].BookingURL == "" {
			courses[i].BookingURL = "https://www.golfnow.com/tee-times/facility/" + courses[i].ID
		}
		courses[i].BookingURL = c.addAffiliateTracking(courses[i].BookingURL)
	}
	return courses
}

func (c *Client) addAffiliateTracking(url string) string {
	if c.cfg.AffiliateID == "" {
		return url
	}
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	return url + separator + "affiliate_id=" + c.cfg.AffiliateID
}

// facility mirrors the provider's facility payload; field names vary between
// endpoints so the alternates are coalesced during transform.
type facility struct {
	ID           any     `json:"id"`
	FacilityID   any     `json:"facilityId"`
	Name         string  `json:"name"`
	FacilityName string  `json:"facilityName"`
	City         string  `json:"city"`
	Location     string  `json:"location"`
	State        string  `json:"state"`
	Region       string  `json:"region"`
	MinPrice     float64 `json:"minPrice"`
	AveragePrice float64 `json:"averagePrice"`
	Currency     string  `json:"currency"`
	Rating       float64 `json:"rating"`
	Description  string  `json:"description"`
	BookingURL   string  `json:"bookingUrl"`
}

type teeTime struct {
	Time      string  `json:"time"`
	TeeTime   string  `json:"teeTime"`
	Available *bool   `json:"available"`
	Price     float64 `json:"price"`
	Rate      float64 `json:"rate"`
	Players   int     `json:"players"`
	Currency  string  `json:"currency"`
}

func transformFacilities(facilities []facility) []golf.Course {
	courses := make([]golf.Course, 0, len(facilities))
	for _, f := range facilities {
		id := coalesceID(f.ID, f.FacilityID)
		name := f.Name
		if name == "" {
			name = f.FacilityName
		}
		if name == "" {
			name = "Unknown Course"
		}
		location := f.City
		if location == "" {
			location = f.Location
		}
		region := f.State
		if region == "" {
			region = f.Region
		}
		price := f.MinPrice
		if price == 0 {
			price = f.AveragePrice
		}
		currency := f.Currency
		if currency == "" {
			currency = "EUR"
		}
		rating := f.Rating
		if rating == 0 {
			rating = 4.5
		}
		courses = append(courses, golf.Course{
			ID:          id,
			Name:        name,
			Location:    location,
			Region:      region,
			Price:       price,
			Currency:    currency,
			Rating:      rating,
			Description: f.Description,
			BookingURL:  f.BookingURL,
		})
	}
	return courses
}

func transformTeeTimes(teeTimes []teeTime) []golf.TeeTimeSlot {
	slots := make([]golf.TeeTimeSlot, 0, len(teeTimes))
	for _, tt := range teeTimes {
		if tt.Available != nil && !*tt.Available {
			continue
		}
		slotTime := tt.Time
		if slotTime == "" {
			slotTime = tt.TeeTime
		}
		price := tt.Price
		if price == 0 {
			price = tt.Rate
		}
		players := tt.Players
		if players == 0 {
			players = 4
		}
		currency := tt.Currency
		if currency == "" {
			currency = "EUR"
		}
		slots = append(slots, golf.TeeTimeSlot{
			Time:      slotTime,
			Price:     price,
			Currency:  currency,
			Players:   players,
			Available: true,
		})
	}
	return slots
}

func coalesceID(values ...any) string {
	for _, v := range values {
		switch value := v.(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatInt(int64(value), 10)
		}
	}
	return ""
}
