package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/eventnest/identity-service/internal/domain/entity"
	"github.com/eventnest/identity-service/internal/domain/identity"
	repo "github.com/eventnest/identity-service/internal/domain/repository"
	"github.com/eventnest/identity-service/pkg/helpers"
	"github.com/eventnest/identity-service/pkg/mailer"
	tpl "github.com/eventnest/identity-service/pkg/mailer/templates"
	"github.com/eventnest/identity-service/pkg/validation"
)

// OTPPolicy configures challenge generation. Alphabet and length feed the
// generator; TTL bounds how long a code is accepted.
type OTPPolicy struct {
	Alphabet string
	Length   int
	TTL      time.Duration
}

// Service implements the credential and challenge lifecycle: registration
// with an email OTP challenge, verification, verification-gated login, and
// profile access.
type Service struct {
	Repo          repo.UserRepository
	JWT           *helpers.JWTManager
	Images        ImageStore
	Mail          MailQueue
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESUsersIndex  string
	AppName       string
	OTP           OTPPolicy
	MaxImageBytes int64
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, images ImageStore, mail MailQueue, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex, appName string, otp OTPPolicy, maxImageBytes int64) *Service {
	return &Service{
		Repo:          r,
		JWT:           jwt,
		Images:        images,
		Mail:          mail,
		Logger:        logger,
		ES:            es,
		ESUsersIndex:  esUsersIndex,
		AppName:       appName,
		OTP:           otp,
		MaxImageBytes: maxImageBytes,
	}
}

// ImageUpload carries an optional profile image from the registration form.
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// RegisterInput is the raw registration payload before normalization.
type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
	Image    *ImageUpload
}

// Register validates input, enforces uniqueness, creates the identity
// unverified, and dispatches the OTP challenge. On a mail dispatch failure
// the created identity is returned together with the upstream error: the
// account exists and the code stays checkable through a resend.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Mobile) == "" || in.Password == "" {
		return nil, identity.ErrMissingField
	}

	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return nil, identity.ErrNameTooShort
	}
	if !validation.ValidEmail(in.Email) {
		return nil, identity.ErrBadEmail
	}
	if !validation.ValidMobile(in.Mobile) {
		return nil, identity.ErrBadMobile
	}
	if len(in.Password) < 6 {
		return nil, identity.ErrWeakPassword
	}

	email := validation.NormalizeEmail(in.Email)
	mobile := validation.NormalizeMobile(in.Mobile)

	// Advisory pre-check; the unique indexes stay authoritative and the
	// insert below still translates constraint violations.
	if existing, err := s.Repo.GetByEmailOrMobile(ctx, email, mobile); err == nil && existing != nil {
		return nil, identity.ErrAlreadyRegistered
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, identity.Internal(err)
	}

	imageURL := ""
	if in.Image != nil && len(in.Image.Data) > 0 {
		if int64(len(in.Image.Data)) > s.MaxImageBytes {
			return nil, identity.ErrImageTooLarge
		}
		if s.Images == nil {
			return nil, identity.Upstream(identity.ErrStorageFailed, errors.New("image store not configured"))
		}
		url, err := s.Images.Upload(ctx, in.Image.Filename, in.Image.ContentType, bytes.NewReader(in.Image.Data))
		if err != nil {
			s.logErr(err, logrus.Fields{"email": email}, "profile image upload failed")
			return nil, identity.Upstream(identity.ErrStorageFailed, err)
		}
		imageURL = url
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, identity.Internal(err)
	}

	u := &entity.User{
		Name:            name,
		Email:           email,
		Mobile:          mobile,
		Password:        hash,
		IsVerified:      false,
		ProfileImageURL: imageURL,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost the race with a concurrent registration.
			return nil, identity.ErrAlreadyRegistered
		}
		return nil, identity.Internal(err)
	}

	s.indexIdentity(ctx, u)

	if err := s.issueChallenge(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// issueChallenge generates a fresh OTP, persists it (superseding any
// outstanding code), and enqueues the challenge mail.
func (s *Service) issueChallenge(ctx context.Context, u *entity.User) error {
	code, err := helpers.GenerateOTP(s.OTP.Alphabet, s.OTP.Length)
	if err != nil {
		return identity.Internal(err)
	}
	expiresAt := time.Now().Add(s.OTP.TTL)
	if err := s.Repo.SetOTP(ctx, u.ID, code, expiresAt); err != nil {
		return identity.Internal(err)
	}
	u.PendingOTP = code
	u.OTPExpiresAt = expiresAt

	if s.Mail == nil {
		return identity.Upstream(identity.ErrMailFailed, errors.New("mail queue not configured"))
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.VerifyOTP,
		Data: tpl.ToMap(tpl.OTPData{
			Name:      u.Name,
			Code:      code,
			AppName:   s.AppName,
			ExpiresIn: formatTTL(s.OTP.TTL),
			SentAt:    time.Now().UTC(),
		}),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.logErr(err, logrus.Fields{"user_id": u.ID}, "challenge mail enqueue failed")
		return identity.Upstream(identity.ErrMailFailed, err)
	}
	return nil
}

// ResendOTP re-issues the challenge for an unverified account. The new code
// supersedes any outstanding one. Unknown addresses and already-verified
// accounts return nil so the endpoint leaks nothing.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return identity.Internal(err)
	}
	if u.IsVerified {
		return nil
	}
	return s.issueChallenge(ctx, u)
}

// Verify consumes the submitted OTP and transitions the identity to
// verified. A correct code re-submitted after success fails: the stored
// code no longer exists.
func (s *Service) Verify(ctx context.Context, email, otp string) error {
	u, err := s.Repo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return identity.ErrNotFound
		}
		return identity.Internal(err)
	}
	if !u.OTPExpiresAt.IsZero() && time.Now().After(u.OTPExpiresAt) {
		return identity.ErrInvalidOTP
	}
	if !helpers.MatchOTP(otp, u.PendingOTP) {
		return identity.ErrInvalidOTP
	}
	if err := s.Repo.MarkVerified(ctx, u.ID); err != nil {
		return identity.Internal(err)
	}
	u.IsVerified = true
	u.PendingOTP = ""
	s.indexIdentity(ctx, u)
	return nil
}

// Login authenticates a verified identity and mints a bearer token. A
// missing account, an unverified account, and a wrong password all produce
// the same generic error.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil || u == nil {
		return "", time.Time{}, nil, identity.ErrInvalidCredentials
	}
	if !u.IsVerified {
		return "", time.Time{}, nil, identity.ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return "", time.Time{}, nil, identity.ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		s.logErr(err, logrus.Fields{"user_id": u.ID}, "token generation failed")
		return "", time.Time{}, nil, identity.Internal(err)
	}
	return token, exp, u, nil
}

// Profile loads an identity and its event-registration back-references.
func (s *Service) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, identity.ErrNotFound
		}
		return nil, identity.Internal(err)
	}
	regs, err := s.Repo.ListRegistrationIDs(ctx, userID)
	if err != nil {
		return nil, identity.Internal(err)
	}
	u.Registrations = regs
	return u, nil
}

// UploadProfileImage stores a new profile image and records its URL.
func (s *Service) UploadProfileImage(ctx context.Context, userID string, img ImageUpload) (string, error) {
	if int64(len(img.Data)) > s.MaxImageBytes {
		return "", identity.ErrImageTooLarge
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", identity.ErrNotFound
		}
		return "", identity.Internal(err)
	}
	if s.Images == nil {
		return "", identity.Upstream(identity.ErrStorageFailed, errors.New("image store not configured"))
	}
	url, err := s.Images.Upload(ctx, img.Filename, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		s.logErr(err, logrus.Fields{"user_id": userID}, "profile image upload failed")
		return "", identity.Upstream(identity.ErrStorageFailed, err)
	}
	u.ProfileImageURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", identity.Internal(err)
	}
	s.indexIdentity(ctx, u)
	return url, nil
}

// indexIdentity mirrors the public projection into Elasticsearch. Indexing
// is best effort; failures are logged and never fail the request.
func (s *Service) indexIdentity(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"mobile":            u.Mobile,
		"is_verified":       u.IsVerified,
		"profile_image_url": u.ProfileImageURL,
		"created_at":        u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":        u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.logErr(err, logrus.Fields{"user_id": u.ID}, "es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchIdentities performs a multi_match search on name and email.
func (s *Service) SearchIdentities(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *Service) logErr(err error, fields logrus.Fields, msg string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}

func formatTTL(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return d.String()
}
