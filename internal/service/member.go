package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
	"github.com/iliyamo/room-escape-reservation/internal/utils"
)

// MemberService handles sign-up, login and member lookups.
type MemberService struct {
	members      MemberStore
	jwtSecret    string
	accessTTLMin int
	bcryptCost   int
	log          logrus.FieldLogger
}

func NewMemberService(members MemberStore, jwtSecret string, accessTTLMin, bcryptCost int) *MemberService {
	return &MemberService{
		members:      members,
		jwtSecret:    jwtSecret,
		accessTTLMin: accessTTLMin,
		bcryptCost:   bcryptCost,
		log:          logrus.WithField("component", "member-service"),
	}
}

// LoginResult is returned by Login.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Member      MemberResponse `json:"member"`
}

// Register creates a USER account.  Emails are compared case-insensitively.
func (s *MemberService) Register(ctx context.Context, name, email, password string) (MemberResponse, error) {
	return s.create(ctx, name, email, password, model.RoleUser)
}

// EnsureAdmin creates an ADMIN account for email unless one with that email
// already exists.  It is used at start-up to seed the first administrator.
// An existing USER account is left as it is and reported with a warning.
func (s *MemberService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	existing, err := s.members.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.log.WithFields(logrus.Fields{"member_id": existing.ID, "email": existing.Email, "role": existing.Role}).
				Warn("admin seed skipped: email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	m, err := s.create(ctx, name, email, password, model.RoleAdmin)
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"member_id": m.ID, "email": m.Email}).Info("seeded admin account")
	return nil
}

// Login checks credentials and issues an access token.  Unknown email and
// wrong password produce the same error.
func (s *MemberService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	m, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(m.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(s.jwtSecret, m.ID, m.Role, m.Name, s.accessTTLMin)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{AccessToken: tok.Token, ExpiresAt: tok.Exp, Member: newMemberResponse(m)}, nil
}

func (s *MemberService) Get(ctx context.Context, id uint64) (MemberResponse, error) {
	m, err := s.members.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return MemberResponse{}, ErrMemberNotFound
	}
	if err != nil {
		return MemberResponse{}, err
	}
	return newMemberResponse(m), nil
}

func (s *MemberService) List(ctx context.Context) ([]MemberResponse, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, newMemberResponse(m))
	}
	return out, nil
}

func (s *MemberService) create(ctx context.Context, name, email, password, role string) (MemberResponse, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return MemberResponse{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return MemberResponse{}, ErrInvalidEmail
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return MemberResponse{}, err
	}
	m := model.Member{Name: name, Email: email, PasswordHash: hash, Role: role}
	id, err := s.members.Create(ctx, m)
	if errors.Is(err, repository.ErrDuplicate) {
		return MemberResponse{}, ErrEmailExists
	}
	if err != nil {
		return MemberResponse{}, err
	}
	m.ID = id
	return newMemberResponse(m), nil
}
