package member

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"

	"golang.org/x/crypto/bcrypt"
)

// Notifier enqueues transactional emails. Satisfied by *mailer.Service.
type Notifier interface {
	Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error)
}

// Counter reports the number of records in an aggregate. The stats endpoint
// uses one per aggregate so the member service doesn't depend on the other
// domains directly.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Service orchestrates member business logic.
type Service struct {
	store    Store
	notifier Notifier
	baseURL  string

	articles Counter
	events   Counter
	projects Counter
}

// NewService creates a new member service. The counters feed the admin
// stats endpoint; any of them may be nil, in which case its total reads zero.
func NewService(store Store, notifier Notifier, baseURL string, articles, events, projects Counter) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		baseURL:  baseURL,
		articles: articles,
		events:   events,
		projects: projects,
	}
}

// Register creates a member account and sends the welcome email.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Member, error) {
	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking existing email: %w", err)
	}
	if existing != nil {
		return nil, common.NewConflictError("a member with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	m := &Member{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Birthdate:    req.Birthdate,
		PhoneNumber:  req.PhoneNumber,
		Type:         TypeUser,
		Status:       true,
		CGUAccepted:  req.CGUAccepted,
		PasswordHash: string(hash),
	}

	if err := s.store.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	// Welcome email is best-effort: the account exists either way, and the
	// mailer records the failure for the operator.
	if s.notifier != nil {
		_, err := s.notifier.Enqueue(ctx, &mailer.SendRequest{
			Type: mailer.TypeWelcome,
			To:   m.Email,
			Data: map[string]any{
				"FirstName": m.FirstName,
				"LoginURL":  s.baseURL + "/login",
			},
			IdempotencyKey: "welcome-" + strconv.FormatInt(m.ID, 10),
		})
		if err != nil {
			slog.Error("failed to enqueue welcome email", "member_id", m.ID, "error", err)
		}
	}

	slog.Info("member registered", "member_id", m.ID, "email", m.Email)
	return m, nil
}

// Get retrieves a member by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		return nil, common.NewNotFoundError("member", strconv.FormatInt(id, 10))
	}
	return m, nil
}

// List retrieves all members.
func (s *Service) List(ctx context.Context) ([]*Member, error) {
	members, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

// Update applies a partial update to a member profile.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Member, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.Birthdate != nil {
		m.Birthdate = *req.Birthdate
	}
	if req.PhoneNumber != nil {
		m.PhoneNumber = *req.PhoneNumber
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.Type != nil {
		if *req.Type != TypeAdmin && *req.Type != TypeUser {
			return nil, common.NewValidationError(fmt.Sprintf("invalid member type: %s", *req.Type))
		}
		m.Type = *req.Type
	}

	if err := s.store.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating member: %w", err)
	}
	return m, nil
}

// Delete removes a member.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	slog.Info("member deleted", "member_id", id)
	return nil
}

// Stats assembles the admin dashboard summary.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting members: %w", err)
	}
	regular, err := s.store.CountByType(ctx, TypeUser)
	if err != nil {
		return nil, fmt.Errorf("counting regular users: %w", err)
	}

	stats := &Stats{
		TotalMembers:      total,
		TotalRegularUsers: regular,
	}

	count := func(c Counter) int {
		if c == nil {
			return 0
		}
		n, err := c.Count(ctx)
		if err != nil {
			slog.Error("stats count failed", "error", err)
			return 0
		}
		return n
	}
	stats.TotalArticles = count(s.articles)
	stats.TotalEvents = count(s.events)
	stats.TotalProjects = count(s.projects)

	return stats, nil
}
