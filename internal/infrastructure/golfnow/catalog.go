package golfnow

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/playgolfspainnow/chat-api/internal/domain/golf"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Courses []golf.Course `yaml:"courses"`
}

// catalog is the bundled Spanish course list served when no live provider
// credentials are configured. It keeps the whole search/book flow
// exercisable in development.
type catalog struct {
	courses []golf.Course
}

func loadCatalog() (*catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return &catalog{courses: file.Courses}, nil
}

func (c *catalog) searchCourses(params golf.CourseSearchParams) []golf.Course {
	needle := strings.ToLower(strings.TrimSpace(params.Location))
	if needle == "" {
		needle = strings.ToLower(strings.TrimSpace(params.CourseName))
	}
	if needle == "" {
		return append([]golf.Course(nil), c.courses...)
	}

	var matched []golf.Course
	for _, course := range c.courses {
		if strings.Contains(strings.ToLower(course.Location), needle) ||
			strings.Contains(strings.ToLower(course.Region), needle) ||
			strings.Contains(strings.ToLower(course.Name), needle) {
			matched = append(matched, course)
		}
	}
	return matched
}

func (c *catalog) courseByID(courseID string) *golf.Course {
	for _, course := range c.courses {
		if course.ID == courseID {
			copied := course
			return &copied
		}
	}
	return nil
}

func (c *catalog) teeTimes(course *golf.Course, players int) []golf.TeeTimeSlot {
	base := 200.0
	currency := "EUR"
	if course != nil {
		base = course.Price
		currency = course.Currency
	}
	slots := []struct {
		time  string
		delta float64
	}{
		{"08:00", 0},
		{"08:30", 0},
		{"09:00", 20},
		{"10:00", 30},
		{"14:00", -30},
	}
	out := make([]golf.TeeTimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, golf.TeeTimeSlot{
			Time:      s.time,
			Price:     base + s.delta,
			Currency:  currency,
			Players:   players,
			Available: true,
		})
	}
	return out
}

func (c *catalog) book(req golf.BookingRequest) *golf.BookingConfirmation {
	course := c.courseByID(req.CourseID)
	price := 200.0
	currency := "EUR"
	for _, slot := range c.teeTimes(course, req.PlayerCount) {
		if slot.Time == req.TeeTime {
			price = slot.Price
			currency = slot.Currency
			break
		}
	}

	return &golf.BookingConfirmation{
		BookingID:          fmt.Sprintf("golfnow-%d", time.Now().UnixMilli()),
		ConfirmationNumber: newConfirmationNumber(),
		CourseName:         req.CourseName,
		PlayDate:           req.PlayDate,
		TeeTime:            req.TeeTime,
		TotalPrice:         price * float64(req.PlayerCount),
		Currency:           currency,
		Status:             "confirmed",
	}
}

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newConfirmationNumber follows the provider's GN########XXXX shape.
func newConfirmationNumber() string {
	digits := fmt.Sprintf("%08d", time.Now().UnixMilli()%100000000)
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = confirmationAlphabet[rand.Intn(len(confirmationAlphabet))]
	}
	return "GN" + digits + string(suffix)
}
