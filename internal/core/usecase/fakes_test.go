package usecase

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type documentRepoFake struct {
	doc           *domain.Document
	created       *domain.Document
	createErr     error
	getErr        error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall
	analysis      *domain.DocumentAnalysis
	analysisID    string
}

func (f *documentRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *documentRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, domain.ErrDocumentNotFound
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *documentRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	return f.statusErr
}

func (f *documentRepoFake) SaveAnalysis(_ context.Context, id string, analysis domain.DocumentAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.analysisID = id
	f.analysis = &analysis
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	content   string
	err       error
	openErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type queueFake struct {
	documentID string
	err        error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

// extractorFake returns the file body as text unless text or err is set.
type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(_ context.Context, file domain.File) (domain.Transcript, error) {
	if f.err != nil {
		return domain.Transcript{}, f.err
	}
	if f.text != "" {
		return domain.Transcript{Text: f.text}, nil
	}
	return domain.Transcript{Text: string(file.Data)}, nil
}

type statementFake struct {
	portfolio *domain.Portfolio
	err       error
}

func (f *statementFake) ParsePortfolio(context.Context, domain.File) (*domain.Portfolio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.portfolio, nil
}

type narratorFake struct {
	narrative   string
	explanation string
	err         error
	modelID     string
}

func (f *narratorFake) SummarizePortfolio(_ context.Context, _ domain.Portfolio, modelID string) (string, error) {
	f.modelID = modelID
	return f.narrative, f.err
}

func (f *narratorFake) ExplainConcept(context.Context, string, string) (string, error) {
	return f.explanation, f.err
}

type caseRepoFake struct {
	saved   *domain.Case
	stored  map[string]*domain.Case
	saveErr error
	getErr  error
}

func (f *caseRepoFake) SaveCase(_ context.Context, c *domain.Case) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copyCase := *c
	f.saved = &copyCase
	return nil
}

func (f *caseRepoFake) GetCase(_ context.Context, id string) (*domain.Case, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.stored[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrCaseNotFound, "get case", errors.New(id))
	}
	return c, nil
}
