package wizard_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"fairvio/backend/internal/models"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) CreateReport(report *models.IssueReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportByID(id string) (*models.IssueReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IssueReport), args.Error(1)
}

func (m *MockStorage) ListReportsByUser(userID string) ([]models.IssueReport, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.IssueReport), args.Error(1)
}

func (m *MockStorage) UpdateReportStatus(id string, status models.ReportStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) CreateEvidence(file *models.EvidenceFile) error {
	args := m.Called(file)
	return args.Error(0)
}

func (m *MockStorage) ListEvidenceByReport(reportID string) ([]models.EvidenceFile, error) {
	args := m.Called(reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EvidenceFile), args.Error(1)
}

func (m *MockStorage) SaveWizardSession(sess *models.WizardSession) error {
	args := m.Called(sess)
	return args.Error(0)
}

func (m *MockStorage) GetWizardSession(id string) (*models.WizardSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WizardSession), args.Error(1)
}

func (m *MockStorage) DeleteWizardSession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) DeleteExpiredWizardSessions(olderThan time.Time) (int64, error) {
	args := m.Called(olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) SaveDraft(sessionID, issueID string, draft models.DraftForm, ttl time.Duration) error {
	args := m.Called(sessionID, issueID, draft, ttl)
	return args.Error(0)
}

func (m *MockStorage) GetDraft(sessionID, issueID string) (*models.DraftForm, error) {
	args := m.Called(sessionID, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DraftForm), args.Error(1)
}

func (m *MockStorage) DeleteDraft(sessionID, issueID string) error {
	args := m.Called(sessionID, issueID)
	return args.Error(0)
}

func (m *MockStorage) SetHandoff(key, value string, ttl time.Duration) error {
	args := m.Called(key, value, ttl)
	return args.Error(0)
}

func (m *MockStorage) TakeHandoff(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) RevokeToken(jti string, ttl time.Duration) error {
	args := m.Called(jti, ttl)
	return args.Error(0)
}

func (m *MockStorage) IsTokenRevoked(jti string) (bool, error) {
	args := m.Called(jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetLanguage(userID, lang string) error {
	args := m.Called(userID, lang)
	return args.Error(0)
}

func (m *MockStorage) GetLanguage(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
