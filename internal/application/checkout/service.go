package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/savedeities/contribute/internal/domain/cases"
	"github.com/savedeities/contribute/internal/domain/contribution"
	vo "github.com/savedeities/contribute/internal/domain/contribution/valueobjects"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/services/markdown"
)

// MaxWait caps a long-poll on the current attempt.
const MaxWait = 60 * time.Second

// ErrInvalidAttemptToken rejects a callback whose token is missing, forged,
// expired or issued to another session.
var ErrInvalidAttemptToken = errors.New("invalid attempt token")

// ServiceConfig holds the contribution page settings.
type ServiceConfig struct {
	Currency           string
	CasePresets        []decimal.Decimal
	GeneralPresets     []decimal.Decimal
	GeneralDescription string
	CaseFallbackTitle  string
}

// ParsePresets turns configured amounts into decimals.
func ParsePresets(values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := contribution.ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("invalid preset amount %q: %w", v, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseMaxAmount parses the configured cap on custom amounts. Empty means no
// cap beyond what ParseAmount accepts.
func ParseMaxAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	d, err := contribution.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid maximum amount %q: %w", value, err)
	}
	return d, nil
}

// PresetsView is what the contribution form offers.
type PresetsView struct {
	Amounts     []string `json:"amounts"`
	Currency    string   `json:"currency"`
	Description string   `json:"description"`
	CaseID      string   `json:"case_id,omitempty"`
	CaseTitle   string   `json:"case_title,omitempty"`
}

// CaseView is the case summary panel shown beside the form.
type CaseView struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	DescriptionHTML string       `json:"description_html"`
	ImageURL        string       `json:"image_url,omitempty"`
	Status          cases.Status `json:"status"`
	CourtName       string       `json:"court_name,omitempty"`
}

type SubmitInput struct {
	Amount       string
	CustomAmount string
	Name         string
	Email        string
	Phone        string
	CaseID       string
}

type CompleteInput struct {
	AttemptToken string
	Result       contribution.GatewayResult
}

// ContributionService is the page-facing entry point. It resolves the page
// context, routes calls to the donor's orchestrator and guards callbacks with
// attempt tokens.
type ContributionService struct {
	registry *SessionRegistry
	cases    cases.Repository
	tokens   AttemptTokens
	markdown markdown.MarkdownService
	cfg      ServiceConfig
	logger   logger.Interface
}

func NewContributionService(
	registry *SessionRegistry,
	caseRepo cases.Repository,
	tokens AttemptTokens,
	md markdown.MarkdownService,
	cfg ServiceConfig,
	log logger.Interface,
) *ContributionService {
	if cfg.Currency == "" {
		cfg.Currency = contribution.DefaultCurrency
	}
	return &ContributionService{
		registry: registry,
		cases:    caseRepo,
		tokens:   tokens,
		markdown: md,
		cfg:      cfg,
		logger:   log,
	}
}

type pageContext struct {
	presets   []decimal.Decimal
	request   contribution.RequestContext
	caseTitle string
}

// resolveContext builds the description and notes for a case page or the
// general page. An unknown case is an error; a lookup failure falls back to
// the default title so the donor can still contribute.
func (s *ContributionService) resolveContext(ctx context.Context, caseID string) (*pageContext, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return &pageContext{
			presets: s.cfg.GeneralPresets,
			request: contribution.RequestContext{
				Currency:    s.cfg.Currency,
				Description: s.cfg.GeneralDescription,
			},
		}, nil
	}

	title := s.cfg.CaseFallbackTitle
	c, err := s.cases.GetCase(ctx, caseID)
	switch {
	case errors.Is(err, cases.ErrCaseNotFound):
		return nil, err
	case err != nil:
		s.logger.Warnw("case lookup failed, using fallback title", "case_id", caseID, "error", err)
	default:
		if t := s.markdown.PlainText(c.Title); t != "" {
			title = t
		}
	}

	return &pageContext{
		presets: s.cfg.CasePresets,
		request: contribution.RequestContext{
			Currency:     s.cfg.Currency,
			Description:  "Contribution for " + title,
			ContextID:    caseID,
			ContextLabel: title,
		},
		caseTitle: title,
	}, nil
}

// Presets returns the fixed amounts and description for a page.
func (s *ContributionService) Presets(ctx context.Context, caseID string) (*PresetsView, error) {
	pc, err := s.resolveContext(ctx, caseID)
	if err != nil {
		return nil, err
	}
	amounts := make([]string, len(pc.presets))
	for i, p := range pc.presets {
		amounts[i] = p.String()
	}
	return &PresetsView{
		Amounts:     amounts,
		Currency:    pc.request.Currency,
		Description: pc.request.Description,
		CaseID:      pc.request.ContextID,
		CaseTitle:   pc.caseTitle,
	}, nil
}

// Submit starts a contribution attempt for the donor session.
func (s *ContributionService) Submit(ctx context.Context, sessionID string, in SubmitInput) (*Snapshot, error) {
	pc, err := s.resolveContext(ctx, in.CaseID)
	if err != nil {
		return nil, err
	}

	orch, _ := s.registry.GetOrCreate(sessionID)
	snap, err := orch.Submit(ctx, SubmitCommand{
		Amount:       in.Amount,
		CustomAmount: in.CustomAmount,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Presets:      pc.presets,
		Context:      pc.request,
	})
	if snap != nil {
		s.attachToken(sessionID, snap)
	}
	return snap, err
}

// Current returns the session's attempt, waiting up to wait (capped at
// MaxWait) for an attempt in progress to finish.
func (s *ContributionService) Current(ctx context.Context, sessionID string, wait time.Duration) *Snapshot {
	orch, ok := s.registry.Get(sessionID)
	if !ok {
		return &Snapshot{State: vo.AttemptStateIdle}
	}

	var snap *Snapshot
	if wait > 0 {
		if wait > MaxWait {
			wait = MaxWait
		}
		snap = orch.Wait(ctx, wait)
	} else {
		snap = orch.Snapshot()
	}
	s.attachToken(sessionID, snap)
	return snap
}

// Complete delivers the gateway completion for the attempt named by the token.
func (s *ContributionService) Complete(ctx context.Context, sessionID string, in CompleteInput) (*Snapshot, error) {
	claims, err := s.checkToken(sessionID, in.AttemptToken)
	if err != nil {
		return nil, err
	}
	if in.Result.OrderID != claims.OrderID {
		s.logger.Warnw("completion for a different order than the token",
			"attempt_id", claims.AttemptID,
			"token_order_id", claims.OrderID,
			"order_id", in.Result.OrderID,
		)
		return nil, ErrStaleAttempt
	}

	orch, ok := s.registry.Get(sessionID)
	if !ok {
		s.logger.Errorw("completion for an unknown session",
			"attempt_id", claims.AttemptID,
			"order_id", in.Result.OrderID,
			"payment_id", in.Result.PaymentID,
		)
		return nil, ErrStaleAttempt
	}
	if err := orch.Complete(claims.AttemptID, in.Result); err != nil {
		return nil, err
	}
	return orch.Snapshot(), nil
}

// Dismiss delivers the gateway dismissal, or the page's navigation-away
// beacon, for the attempt named by the token.
func (s *ContributionService) Dismiss(ctx context.Context, sessionID, token, reason string) (*Snapshot, error) {
	claims, err := s.checkToken(sessionID, token)
	if err != nil {
		return nil, err
	}
	orch, ok := s.registry.Get(sessionID)
	if !ok {
		return &Snapshot{State: vo.AttemptStateIdle}, nil
	}
	if err := orch.Dismiss(claims.AttemptID, claims.OrderID, reason); err != nil {
		return nil, err
	}
	return orch.Wait(ctx, time.Second), nil
}

// GetCase returns the case summary with its description rendered to
// sanitized HTML.
func (s *ContributionService) GetCase(ctx context.Context, id string) (*CaseView, error) {
	c, err := s.cases.GetCase(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	html, err := s.markdown.ToHTMLSanitized(c.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to render case description: %w", err)
	}
	return &CaseView{
		ID:              c.ID,
		Title:           s.markdown.PlainText(c.Title),
		DescriptionHTML: html,
		ImageURL:        c.ImageURL,
		Status:          c.Status,
		CourtName:       c.CourtName,
	}, nil
}

func (s *ContributionService) checkToken(sessionID, token string) (*AttemptClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidAttemptToken
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Warnw("attempt token rejected", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttemptToken, err)
	}
	if claims.SessionID != sessionID {
		s.logger.Warnw("attempt token issued to another session", "attempt_id", claims.AttemptID)
		return nil, ErrInvalidAttemptToken
	}
	return claims, nil
}

func (s *ContributionService) attachToken(sessionID string, snap *Snapshot) {
	if snap.State != vo.AttemptStateAwaitingGatewayResult || snap.OrderID == "" {
		return
	}
	token, err := s.tokens.Issue(AttemptClaims{
		SessionID: sessionID,
		AttemptID: snap.AttemptID,
		OrderID:   snap.OrderID,
	})
	if err != nil {
		s.logger.Errorw("failed to issue attempt token", "attempt_id", snap.AttemptID, "error", err)
		return
	}
	snap.AttemptToken = token
}
