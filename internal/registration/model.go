package registration

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MIN_TEAM_SIZE = 1
	MAX_TEAM_SIZE = 4

	MIN_AGE     = 10
	MAX_AGE     = 99
	DEFAULT_AGE = 18

	ROLE_CAPTAIN = "Captain"
	ROLE_MEMBER  = "Member"

	// The system has no payment integration, the status is a fixed placeholder.
	PAYMENT_STATUS = "Paid"
)

var ErrInvalidCount = fmt.Errorf("team size must be between %d and %d", MIN_TEAM_SIZE, MAX_TEAM_SIZE)

var errUnknownGender = errors.New("unknown gender")

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Other  Gender = "Other"
)

func Genders() []Gender {
	return []Gender{Male, Female, Other}
}

// ParseGender accepts any letter case and surrounding whitespace.
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders() {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("ParseGender failed: %w: %q", errUnknownGender, s)
}

// Participant phones are collected only for the captain (index 0).
type Participant struct {
	FullName       string `json:"fullName" validate:"required"`
	Age            int    `json:"age" validate:"min=10,max=99"`
	Gender         Gender `json:"gender" validate:"oneof=Male Female Other"`
	PrimaryPhone   string `json:"primaryPhone"`
	SecondaryPhone string `json:"secondaryPhone"`
}

func DefaultParticipant() Participant {
	return Participant{Age: DEFAULT_AGE, Gender: Male}
}

// Registration holds an ordered participant list, position 0 is the captain.
type Registration struct {
	Participants []Participant `json:"participants" validate:"min=1,max=4,dive"`
}

// NewRegistration returns n participants with default values.
func NewRegistration(n int) (Registration, error) {
	if n < MIN_TEAM_SIZE || n > MAX_TEAM_SIZE {
		return Registration{}, fmt.Errorf("NewRegistration failed: %w (got %d)", ErrInvalidCount, n)
	}

	participants := make([]Participant, n)
	for i := range participants {
		participants[i] = DefaultParticipant()
	}

	return Registration{Participants: participants}, nil
}

func (r Registration) Captain() (Participant, bool) {
	if len(r.Participants) == 0 {
		return Participant{}, false
	}
	return r.Participants[0], true
}

func RoleFor(index int) string {
	if index == 0 {
		return ROLE_CAPTAIN
	}
	return ROLE_MEMBER
}

// Title is the heading shown for a participant slot.
func Title(index int) string {
	if index == 0 {
		return "Team Captain"
	}
	return fmt.Sprintf("Team Member %d", index)
}

// Payload is the body sent to the relay or to the script endpoint.
type Payload struct {
	TeamID        string        `json:"teamId,omitempty"`
	Participants  []Participant `json:"participants"`
	PaymentStatus string        `json:"paymentStatus,omitempty"`
}

func NewPayload(teamID string, r Registration) Payload {
	participants := make([]Participant, len(r.Participants))
	copy(participants, r.Participants)

	return Payload{
		TeamID:        teamID,
		Participants:  participants,
		PaymentStatus: PAYMENT_STATUS,
	}
}
