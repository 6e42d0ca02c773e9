package golf

import "context"

// CourseSearchParams filters a course search. All fields are optional.
type CourseSearchParams struct {
	Location   string
	CourseName string
	Date       string
	Players    int
}

// Course is one bookable golf course.
type Course struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Region      string  `json:"region"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description,omitempty"`
	BookingURL  string  `json:"bookingUrl,omitempty"`
}

// TeeTimeSlot is one bookable slot on a course for a given date.
type TeeTimeSlot struct {
	Time      string  `json:"time"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Players   int     `json:"players"`
	Available bool    `json:"available"`
}

// BookingRequest carries everything the provider needs to confirm a booking.
type BookingRequest struct {
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	PlayDate    string `json:"playDate"`
	TeeTime     string `json:"teeTime"`
	PlayerCount int    `json:"playerCount"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
}

// BookingConfirmation is the provider's answer to a successful booking.
type BookingConfirmation struct {
	BookingID          string  `json:"bookingId"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	CourseName         string  `json:"courseName"`
	PlayDate           string  `json:"playDate"`
	TeeTime            string  `json:"teeTime"`
	TotalPrice         float64 `json:"totalPrice"`
	Currency           string  `json:"currency"`
	Status             string  `json:"status"`
}

// Client abstracts the booking provider. Failures surface as errors,
// distinguishable from empty result sets.
type Client interface {
	SearchCourses(ctx context.Context, params CourseSearchParams) ([]Course, error)
	GetCourseByID(ctx context.Context, courseID string) (*Course, error)
	GetAvailableTeeTimes(ctx context.Context, courseID, date string, players int) ([]TeeTimeSlot, error)
	BookTeeTime(ctx context.Context, req BookingRequest) (*BookingConfirmation, error)
}
