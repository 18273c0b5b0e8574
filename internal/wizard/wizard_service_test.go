package wizard_test

import (
	"testing"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/storage"
	"fairvio/backend/internal/wizard"
)

func newService(s *MockStorage) *wizard.Service {
	return wizard.NewService(s, zerolog.Nop())
}

func validForm() models.DraftForm {
	return models.DraftForm{
		When:  "Last Tuesday",
		Where: "The warehouse on 5th street",
		Who:   "My shift supervisor",
		What:  "I was told to clock out and keep working for two more hours.",
	}
}

func TestStartSession_RejectsEmptySelection(t *testing.T) {
	storageMock := new(MockStorage)
	svc := newService(storageMock)

	_, err := svc.StartSession("", nil, false)

	assert.ErrorIs(t, err, wizard.ErrNoSelection)
	storageMock.AssertNotCalled(t, "SaveWizardSession", mock.Anything)
}

func TestStartSession_RejectsUnknownCategory(t *testing.T) {
	storageMock := new(MockStorage)
	svc := newService(storageMock)

	_, err := svc.StartSession("", []string{"wage-theft", "alien-abduction"}, false)

	assert.ErrorIs(t, err, wizard.ErrUnknownCategory)
	storageMock.AssertNotCalled(t, "SaveWizardSession", mock.Anything)
}

func TestStartSession_RejectsDuplicateSelection(t *testing.T) {
	storageMock := new(MockStorage)
	svc := newService(storageMock)

	_, err := svc.StartSession("", []string{"wage-theft", "wage-theft"}, false)

	assert.ErrorIs(t, err, wizard.ErrUnknownCategory)
}

func TestStartSession_KeepsSelectionOrder(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("SaveWizardSession", mock.AnythingOfType("*models.WizardSession")).Return(nil)
	svc := newService(storageMock)

	sess, err := svc.StartSession("user-1", []string{"retaliation", "wage-theft"}, false)

	assert.NoError(t, err)
	assert.Equal(t, pq.StringArray{"retaliation", "wage-theft"}, sess.SelectedIssues)
	assert.Equal(t, 0, sess.ActiveIndex)
	assert.Equal(t, "retaliation", sess.ActiveIssueID())
}

func TestValidateDetails(t *testing.T) {
	verr := wizard.ValidateDetails(models.DraftForm{What: "too short"})

	assert.NotNil(t, verr)
	assert.Equal(t, "reportDetails.error.when", verr.Fields["when"])
	assert.Equal(t, "reportDetails.error.where", verr.Fields["where"])
	assert.Equal(t, "reportDetails.error.who", verr.Fields["who"])
	assert.Equal(t, "reportDetails.error.what", verr.Fields["what"])

	assert.Nil(t, wizard.ValidateDetails(validForm()))
}

func TestSubmit_InvalidFormWritesNothing(t *testing.T) {
	storageMock := new(MockStorage)
	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	_, err := svc.Submit(sess, "user-1", models.DraftForm{}, nil)

	var verr *wizard.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, sess.ActiveIndex)
	storageMock.AssertNotCalled(t, "CreateReport", mock.Anything)
	storageMock.AssertNotCalled(t, "SaveWizardSession", mock.Anything)
}

func TestSubmit_AdvancesToNextIssue(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("CreateReport", mock.AnythingOfType("*models.IssueReport")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.IssueReport).ID = "report-1"
		}).Return(nil)
	storageMock.On("DeleteDraft", "s1", "wage-theft").Return(nil)
	storageMock.On("SaveWizardSession", mock.AnythingOfType("*models.WizardSession")).Return(nil)
	storageMock.On("GetDraft", "s1", "retaliation").Return(nil, storage.ErrNotFound)

	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft", "retaliation"}}

	result, err := svc.Submit(sess, "user-1", validForm(), nil)

	assert.NoError(t, err)
	assert.False(t, result.Done)
	assert.Equal(t, "retaliation", result.NextCategory.ID)
	assert.Nil(t, result.NextDraft)
	assert.Equal(t, 1, sess.ActiveIndex)
	assert.Equal(t, "wage-theft", result.Report.IssueType)
	assert.Equal(t, models.StatusSubmitted, result.Report.Status)
	storageMock.AssertNotCalled(t, "DeleteWizardSession", mock.Anything)
}

func TestSubmit_FinalIssueClosesSession(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("CreateReport", mock.AnythingOfType("*models.IssueReport")).Return(nil)
	storageMock.On("DeleteDraft", "s1", "retaliation").Return(nil)
	storageMock.On("DeleteWizardSession", "s1").Return(nil)

	svc := newService(storageMock)
	sess := &models.WizardSession{
		ID:             "s1",
		SelectedIssues: pq.StringArray{"wage-theft", "retaliation"},
		ActiveIndex:    1,
	}

	result, err := svc.Submit(sess, "user-1", validForm(), nil)

	assert.NoError(t, err)
	assert.True(t, result.Done)
	assert.Nil(t, result.NextCategory)
	assert.True(t, sess.Done())
	storageMock.AssertCalled(t, "DeleteWizardSession", "s1")
	storageMock.AssertNotCalled(t, "SaveWizardSession", mock.Anything)
}

func TestSubmit_StoresEvidenceUnderReportPath(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("CreateReport", mock.AnythingOfType("*models.IssueReport")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.IssueReport).ID = "report-1"
		}).Return(nil)
	var saved *models.EvidenceFile
	storageMock.On("CreateEvidence", mock.AnythingOfType("*models.EvidenceFile")).
		Run(func(args mock.Arguments) {
			saved = args.Get(0).(*models.EvidenceFile)
		}).Return(nil)
	storageMock.On("DeleteDraft", "s1", "wage-theft").Return(nil)
	storageMock.On("DeleteWizardSession", "s1").Return(nil)

	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	content := []byte("pay stub scan")
	_, err := svc.Submit(sess, "user-1", validForm(), []wizard.EvidenceUpload{
		{Filename: "paystub.pdf", ContentType: "application/pdf", Content: content},
	})

	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, "report-1", saved.ReportID)
	assert.Regexp(t, `^report-1/\d+\.pdf$`, saved.StoragePath)
	assert.Equal(t, int64(len(content)), saved.SizeBytes)
}

func TestSubmit_RejectsOversizedEvidence(t *testing.T) {
	storageMock := new(MockStorage)
	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	_, err := svc.Submit(sess, "user-1", validForm(), []wizard.EvidenceUpload{
		{Filename: "huge.bin", Content: make([]byte, config.MaxEvidenceSize+1)},
	})

	assert.ErrorIs(t, err, wizard.ErrEvidenceTooBig)
	storageMock.AssertNotCalled(t, "CreateReport", mock.Anything)
}

func TestSubmit_DoneSessionRejected(t *testing.T) {
	svc := newService(new(MockStorage))
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}, ActiveIndex: 1}

	_, err := svc.Submit(sess, "user-1", validForm(), nil)

	assert.ErrorIs(t, err, wizard.ErrSessionDone)
}

func TestSaveDraft_UsesConfiguredTTL(t *testing.T) {
	storageMock := new(MockStorage)
	form := validForm()
	storageMock.On("SaveDraft", "s1", "wage-theft", form, config.DraftTTL).Return(nil)
	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	assert.NoError(t, svc.SaveDraft(sess, form))
	storageMock.AssertExpectations(t)
}

func TestSaveDraft_EmptyFormClearsDraft(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("DeleteDraft", "s1", "wage-theft").Return(nil)
	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	assert.NoError(t, svc.SaveDraft(sess, models.DraftForm{}))

	storageMock.AssertCalled(t, "DeleteDraft", "s1", "wage-theft")
	storageMock.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDraft_MissingIsNil(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("GetDraft", "s1", "wage-theft").Return(nil, storage.ErrNotFound)
	svc := newService(storageMock)
	sess := &models.WizardSession{ID: "s1", SelectedIssues: pq.StringArray{"wage-theft"}}

	draft, err := svc.Draft(sess, "wage-theft")

	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestClaim(t *testing.T) {
	storageMock := new(MockStorage)
	storageMock.On("SaveWizardSession", mock.AnythingOfType("*models.WizardSession")).Return(nil)
	svc := newService(storageMock)

	sess := &models.WizardSession{ID: "s1", UserID: "user-1"}
	assert.NoError(t, svc.Claim(sess, "user-1"))
	storageMock.AssertNotCalled(t, "SaveWizardSession", mock.Anything)

	anon := &models.WizardSession{ID: "s2"}
	assert.NoError(t, svc.Claim(anon, "user-1"))
	assert.Equal(t, "user-1", anon.UserID)
	storageMock.AssertCalled(t, "SaveWizardSession", anon)
}

func TestCategories_CatalogIsStable(t *testing.T) {
	cats := wizard.Categories()
	assert.Len(t, cats, 8)

	cat, ok := wizard.CategoryByID("wage-theft")
	assert.True(t, ok)
	assert.Equal(t, "Wage Theft", cat.Title)

	_, ok = wizard.CategoryByID("unknown")
	assert.False(t, ok)
}
