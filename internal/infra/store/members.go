package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"iyffa/internal/domain/event"
	"iyffa/internal/domain/member"

	"github.com/supabase-community/postgrest-go"
)

const membersTable = "ifa_user"

var (
	_ member.Store          = (*MemberStore)(nil)
	_ event.MemberDirectory = (*MemberStore)(nil)
)

// MemberStore implements member.Store on Supabase.
type MemberStore struct {
	client *Client
}

// NewMemberStore creates a Supabase-backed member store.
func NewMemberStore(client *Client) *MemberStore {
	return &MemberStore{client: client}
}

// memberRow is the PostgREST representation of an ifa_user record.
type memberRow struct {
	ID           int64  `json:"usr_id,omitempty"`
	FirstName    string `json:"usr_name"`
	LastName     string `json:"usr_surname"`
	Birthdate    string `json:"usr_birthdate,omitempty"`
	Email        string `json:"usr_email"`
	PhoneNumber  string `json:"usr_phone_number,omitempty"`
	Status       bool   `json:"usr_status"`
	CGUAccepted  bool   `json:"usr_cgu"`
	Type         string `json:"usr_type"`
	StripeID     string `json:"usr_stripe_id,omitempty"`
	PasswordHash string `json:"usr_password_hash,omitempty"`
	OTPEnabled   bool   `json:"usr_otp_enabled"`
	OTPSecret    string `json:"usr_otp_secret,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func memberToRow(m *member.Member) memberRow {
	return memberRow{
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Birthdate:    m.Birthdate,
		Email:        m.Email,
		PhoneNumber:  m.PhoneNumber,
		Status:       m.Status,
		CGUAccepted:  m.CGUAccepted,
		Type:         m.Type,
		StripeID:     m.StripeID,
		PasswordHash: m.PasswordHash,
		OTPEnabled:   m.OTPEnabled,
		OTPSecret:    m.OTPSecret,
	}
}

func rowToMember(row *memberRow) *member.Member {
	return &member.Member{
		ID:           row.ID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Birthdate:    row.Birthdate,
		PhoneNumber:  row.PhoneNumber,
		Type:         row.Type,
		Status:       row.Status,
		CGUAccepted:  row.CGUAccepted,
		StripeID:     row.StripeID,
		OTPEnabled:   row.OTPEnabled,
		OTPSecret:    row.OTPSecret,
		PasswordHash: row.PasswordHash,
		CreatedAt:    parseTime(row.CreatedAt),
		UpdatedAt:    parseTime(row.UpdatedAt),
	}
}

// Create inserts a new member and fills in the generated ID.
func (s *MemberStore) Create(ctx context.Context, m *member.Member) error {
	row := memberToRow(m)

	var results []memberRow
	data, _, err := s.client.sb.From(membersTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		m.ID = results[0].ID
		m.CreatedAt = parseTime(results[0].CreatedAt)
		m.UpdatedAt = parseTime(results[0].UpdatedAt)
	}

	return nil
}

// GetByID retrieves a member by ID. Returns nil, nil if not found.
func (s *MemberStore) GetByID(ctx context.Context, id int64) (*member.Member, error) {
	return s.getOne(ctx, "usr_id", strconv.FormatInt(id, 10))
}

// GetByEmail retrieves a member by email. Returns nil, nil if not found.
func (s *MemberStore) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	return s.getOne(ctx, "usr_email", email)
}

func (s *MemberStore) getOne(ctx context.Context, column, value string) (*member.Member, error) {
	data, _, err := s.client.sb.From(membersTable).Select("*", "exact", false).Eq(column, value).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching member: %w", err)
	}

	var rows []memberRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing member: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToMember(&rows[0]), nil
}

// Update persists changes to an existing member.
func (s *MemberStore) Update(ctx context.Context, m *member.Member) error {
	row := memberToRow(m)
	update := map[string]any{
		"usr_name":          row.FirstName,
		"usr_surname":       row.LastName,
		"usr_birthdate":     row.Birthdate,
		"usr_email":         row.Email,
		"usr_phone_number":  row.PhoneNumber,
		"usr_status":        row.Status,
		"usr_cgu":           row.CGUAccepted,
		"usr_type":          row.Type,
		"usr_stripe_id":     row.StripeID,
		"usr_password_hash": row.PasswordHash,
		"usr_otp_enabled":   row.OTPEnabled,
		"usr_otp_secret":    row.OTPSecret,
		"updated_at":        formatTime(time.Now()),
	}

	_, _, err := s.client.sb.From(membersTable).Update(update, "", "").Eq("usr_id", strconv.FormatInt(m.ID, 10)).Execute()
	if err != nil {
		return fmt.Errorf("updating member: %w", err)
	}

	return nil
}

// Delete removes a member by ID.
func (s *MemberStore) Delete(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(membersTable).Delete("", "").Eq("usr_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}

// List retrieves all members ordered by creation time.
func (s *MemberStore) List(ctx context.Context) ([]*member.Member, error) {
	data, _, err := s.client.sb.From(membersTable).
		Select("*", "exact", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	var rows []memberRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing member list: %w", err)
	}

	members := make([]*member.Member, len(rows))
	for i, row := range rows {
		members[i] = rowToMember(&row)
	}

	return members, nil
}

// Count returns the total number of members.
func (s *MemberStore) Count(ctx context.Context) (int, error) {
	_, count, err := s.client.sb.From(membersTable).Select("usr_id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("counting members: %w", err)
	}
	return int(count), nil
}

// CountByType returns the number of members with the given type.
func (s *MemberStore) CountByType(ctx context.Context, memberType string) (int, error) {
	_, count, err := s.client.sb.From(membersTable).
		Select("usr_id", "exact", true).
		Eq("usr_type", memberType).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("counting members by type: %w", err)
	}
	return int(count), nil
}

// ListActiveRecipients returns the active members' contact details for
// event reminder broadcasts. Satisfies event.MemberDirectory.
func (s *MemberStore) ListActiveRecipients(ctx context.Context) ([]event.Recipient, error) {
	data, _, err := s.client.sb.From(membersTable).
		Select("usr_email,usr_name", "exact", false).
		Eq("usr_status", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing active members: %w", err)
	}

	var rows []memberRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing active members: %w", err)
	}

	recipients := make([]event.Recipient, len(rows))
	for i, row := range rows {
		recipients[i] = event.Recipient{
			Email:     row.Email,
			FirstName: row.FirstName,
		}
	}

	return recipients, nil
}
