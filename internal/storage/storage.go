package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fairvio/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Storage is the persistence surface of the service. Durable rows live in
// PostgreSQL, volatile per-session state (drafts, the hand-off slot,
// revoked tokens) in Redis.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	CreateReport(report *models.IssueReport) error
	GetReportByID(id string) (*models.IssueReport, error)
	ListReportsByUser(userID string) ([]models.IssueReport, error)
	UpdateReportStatus(id string, status models.ReportStatus) error
	CreateEvidence(file *models.EvidenceFile) error
	ListEvidenceByReport(reportID string) ([]models.EvidenceFile, error)

	SaveWizardSession(sess *models.WizardSession) error
	GetWizardSession(id string) (*models.WizardSession, error)
	DeleteWizardSession(id string) error
	DeleteExpiredWizardSessions(olderThan time.Time) (int64, error)

	SaveDraft(sessionID, issueID string, draft models.DraftForm, ttl time.Duration) error
	GetDraft(sessionID, issueID string) (*models.DraftForm, error)
	DeleteDraft(sessionID, issueID string) error

	SetHandoff(key, value string, ttl time.Duration) error
	TakeHandoff(key string) (string, error)

	RevokeToken(jti string, ttl time.Duration) error
	IsTokenRevoked(jti string) (bool, error)

	SetLanguage(userID, lang string) error
	GetLanguage(userID string) (string, error)
}

// Service implements Storage over gorm and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

// SaveUser inserts or updates a user row.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Reports & evidence ---

func (s *Service) CreateReport(report *models.IssueReport) error {
	return s.DB.Create(report).Error
}

func (s *Service) GetReportByID(id string) (*models.IssueReport, error) {
	var report models.IssueReport
	err := s.DB.First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListReportsByUser returns the user's reports newest first, the order the
// reports page displays them in.
func (s *Service) ListReportsByUser(userID string) ([]models.IssueReport, error) {
	var reports []models.IssueReport
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateReportStatus moves a report through the review pipeline. Only the
// admin CLI calls this; the web client never transitions status itself.
func (s *Service) UpdateReportStatus(id string, status models.ReportStatus) error {
	res := s.DB.Model(&models.IssueReport{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CreateEvidence(file *models.EvidenceFile) error {
	return s.DB.Create(file).Error
}

func (s *Service) ListEvidenceByReport(reportID string) ([]models.EvidenceFile, error) {
	var files []models.EvidenceFile
	err := s.DB.Where("report_id = ?", reportID).
		Order("created_at asc").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// --- Wizard sessions ---

func (s *Service) SaveWizardSession(sess *models.WizardSession) error {
	return s.DB.Save(sess).Error
}

func (s *Service) GetWizardSession(id string) (*models.WizardSession, error) {
	var sess models.WizardSession
	err := s.DB.First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) DeleteWizardSession(id string) error {
	return s.DB.Delete(&models.WizardSession{}, "id = ?", id).Error
}

// DeleteExpiredWizardSessions purges abandoned wizard sessions; drafts and
// hand-off values expire on their own via Redis TTLs.
func (s *Service) DeleteExpiredWizardSessions(olderThan time.Time) (int64, error) {
	res := s.DB.Delete(&models.WizardSession{}, "created_at < ?", olderThan)
	return res.RowsAffected, res.Error
}

// --- Drafts (Redis) ---

func draftKey(sessionID, issueID string) string {
	return "draft:" + sessionID + ":" + issueID
}

// SaveDraft stores the in-progress form values for one issue.
func (s *Service) SaveDraft(sessionID, issueID string, draft models.DraftForm, ttl time.Duration) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.Redis.Set(s.Ctx, draftKey(sessionID, issueID), data, ttl).Err()
}

// GetDraft returns the saved draft, or ErrNotFound when none exists.
func (s *Service) GetDraft(sessionID, issueID string) (*models.DraftForm, error) {
	data, err := s.Redis.Get(s.Ctx, draftKey(sessionID, issueID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft models.DraftForm
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// DeleteDraft discards unsaved work, the "leave without saving" path.
func (s *Service) DeleteDraft(sessionID, issueID string) error {
	return s.Redis.Del(s.Ctx, draftKey(sessionID, issueID)).Err()
}

// --- Hand-off slot (Redis) ---

// SetHandoff stores the single pending hand-off value for a visitor,
// overwriting whatever was there before.
func (s *Service) SetHandoff(key, value string, ttl time.Duration) error {
	return s.Redis.Set(s.Ctx, "handoff:"+key, value, ttl).Err()
}

// TakeHandoff reads and clears the pending hand-off value. Returns
// ErrNotFound when the slot is empty.
func (s *Service) TakeHandoff(key string) (string, error) {
	value, err := s.Redis.GetDel(s.Ctx, "handoff:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// --- Token revocation (Redis) ---

// RevokeToken marks a token id as signed out until the token would have
// expired anyway.
func (s *Service) RevokeToken(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(s.Ctx, "revoked:"+jti, "1", ttl).Err()
}

func (s *Service) IsTokenRevoked(jti string) (bool, error) {
	_, err := s.Redis.Get(s.Ctx, "revoked:"+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// --- Language preference ---

// SetLanguage persists a signed-in user's language preference.
func (s *Service) SetLanguage(userID, lang string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("language", lang).Error
}

func (s *Service) GetLanguage(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.Language, nil
}
