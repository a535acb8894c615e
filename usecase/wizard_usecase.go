package usecase

import (
	"context"
	"errors"
	"fmt"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"
	"meta-ads-setup/infrastructure/logger"
	"meta-ads-setup/infrastructure/utils"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingCredentials = errors.New("both app id and app secret are required")
	ErrNoCredentials      = errors.New("no credentials submitted for this session")
	ErrStateMismatch      = errors.New("state mismatch - possible CSRF attack")
	ErrNotAuthorized      = errors.New("session has no access token")
	ErrAccountNotFound    = errors.New("ad account not found in this session")
	ErrMissingCode        = errors.New("callback carried no authorization code")
)

type IWizardUsecase interface {
	SubmitCredentials(ctx context.Context, sessionID, appID, appSecret string) (*model.Session, error)
	BeginAuthorization(ctx context.Context, sessionID string) (string, error)
	HandleCallback(ctx context.Context, sessionID, code, state, errParam string) (*model.Session, error)
	Status(ctx context.Context, sessionID string) (*model.Session, error)
	Accounts(ctx context.Context, sessionID string) ([]model.AdAccount, error)
	SelectAccount(ctx context.Context, sessionID, accountID string) (string, error)
	Reset(ctx context.Context, sessionID string) error
}

type wizardUsecase struct {
	store repository.ISessionStore
	graph repository.IGraph
}

func NewWizardUsecase(store repository.ISessionStore, graph repository.IGraph) IWizardUsecase {
	return &wizardUsecase{store: store, graph: graph}
}

func (u *wizardUsecase) load(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := u.store.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.NewSession(sessionID), nil
	}
	return session, err
}

// SubmitCredentials records the app id/secret pair and advances to the
// authorization step. Empty fields reject the transition.
func (u *wizardUsecase) SubmitCredentials(ctx context.Context, sessionID, appID, appSecret string) (*model.Session, error) {
	session, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if appID == "" || appSecret == "" {
		return session, ErrMissingCredentials
	}
	session.AppID = appID
	session.AppSecret = appSecret
	session.Step = model.StepAwaitingAuthorization
	session.LastError = ""
	if err := u.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// BeginAuthorization mints a fresh CSRF state token, persists it together with
// the credentials, and returns the authorization dialog URL.
func (u *wizardUsecase) BeginAuthorization(ctx context.Context, sessionID string) (string, error) {
	session, err := u.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.AppID == "" || session.AppSecret == "" {
		return "", ErrNoCredentials
	}
	session.OAuthState = utils.RandomHex(16)
	session.Step = model.StepAwaitingAuthorization
	if err := u.store.Save(ctx, session); err != nil {
		return "", err
	}
	return u.graph.AuthCodeURL(session.Credentials(), session.OAuthState), nil
}

// HandleCallback drives the code-for-token exchange. Replays of an already
// processed code resume from persisted state without touching the network;
// the processed-code marker is never rolled back, even after a failed
// exchange, so a retried code short-circuits instead of being exchanged twice.
func (u *wizardUsecase) HandleCallback(ctx context.Context, sessionID, code, state, errParam string) (*model.Session, error) {
	session, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if errParam != "" {
		session.LastError = fmt.Sprintf("OAuth error: %s", errParam)
		session.Step = model.StepAwaitingCredentials
		if err := u.store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, errors.New(session.LastError)
	}

	if code == "" {
		return session, ErrMissingCode
	}

	// Idempotent resume: a processed code is never exchanged again. When the
	// earlier exchange succeeded we resume from the persisted token and
	// account list; when it failed, the delivery is a no-op and the user
	// restarts from the credentials step.
	if code == session.ProcessedCode {
		if session.AccessToken != "" && session.Step != model.StepAccountsReady && session.Step != model.StepComplete {
			session.Step = model.StepAccountsReady
			if err := u.store.Save(ctx, session); err != nil {
				return nil, err
			}
		}
		return session, nil
	}

	if state != session.OAuthState || session.OAuthState == "" {
		session.LastError = ErrStateMismatch.Error()
		session.Step = model.StepFailed
		if err := u.store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, ErrStateMismatch
	}

	// Mark the code processed before exchanging so a repeated callback is a
	// no-op rather than a duplicate exchange.
	session.ProcessedCode = code
	session.Step = model.StepExchangingCode
	if err := u.store.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := u.graph.ExchangeCode(ctx, session.Credentials(), code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Token exchange failed")
		session.LastError = fmt.Sprintf("Failed to exchange code for token: %s", err.Error())
		session.Step = model.StepAwaitingCredentials
		if saveErr := u.store.Save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return session, err
	}

	session.AccessToken = token
	if err := u.store.Save(ctx, session); err != nil {
		return nil, err
	}

	accounts, discErr := u.discoverAdAccounts(ctx, session.Credentials())
	if discErr != nil {
		logger.GetLogger().WithField("error", discErr).Error("Ad account discovery returned an error")
		session.LastError = fmt.Sprintf("Failed to fetch ad accounts: %s", discErr.Error())
	} else {
		session.LastError = ""
	}
	session.AdAccounts = accounts
	session.OAuthState = ""
	session.Step = model.StepAccountsReady
	if err := u.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// discoverAdAccounts fetches personal and business-owned ad accounts. The two
// paths are independent and run concurrently; business lookups stay sequential
// within their path. A failing business lookup is skipped; a failing personal
// fetch is reported but does not discard business results.
func (u *wizardUsecase) discoverAdAccounts(ctx context.Context, creds model.Credentials) ([]model.AdAccount, error) {
	var (
		personal    []model.AdAccount
		business    []model.AdAccount
		personalErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := u.graph.GetAdAccounts(gctx, creds)
		if err != nil {
			personalErr = err
			return nil
		}
		for _, e := range entries {
			personal = append(personal, labelPersonalAccount(e))
		}
		return nil
	})
	g.Go(func() error {
		businesses, err := u.graph.GetBusinesses(gctx, creds)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Could not fetch businesses")
			return nil
		}
		for _, b := range businesses {
			owned, err := u.graph.GetOwnedAdAccounts(gctx, creds, b.ID)
			if err != nil {
				logger.GetLogger().WithFields(map[string]interface{}{
					"business": b.Name,
					"error":    err,
				}).Warn("Could not fetch ad accounts for business, skipping")
				continue
			}
			for _, e := range owned {
				business = append(business, labelBusinessAccount(e, b))
			}
		}
		return nil
	})
	_ = g.Wait()

	// Personal results come first so dedup keeps them over business duplicates.
	return dedupAccounts(append(personal, business...)), personalErr
}

func labelPersonalAccount(e dto.AdAccountEntry) model.AdAccount {
	account := model.AdAccount{
		ID:            e.ID,
		Name:          e.Name,
		AccountStatus: e.AccountStatus,
		Currency:      e.Currency,
		Source:        model.SourcePersonal,
		BusinessName:  model.SourcePersonal,
	}
	if e.AccountStatus == model.SandboxAccountStatus {
		account.Source = model.SourceSandbox
		account.BusinessName = model.SourceSandbox
	}
	return account
}

func labelBusinessAccount(e dto.AdAccountEntry, b dto.BusinessEntry) model.AdAccount {
	account := model.AdAccount{
		ID:            e.ID,
		Name:          e.Name,
		AccountStatus: e.AccountStatus,
		Currency:      e.Currency,
		Source:        model.SourceBusiness,
		BusinessID:    b.ID,
		BusinessName:  b.Name,
	}
	if e.AccountStatus == model.SandboxAccountStatus {
		account.Source = model.SourceSandbox
		account.BusinessName = model.SourceSandbox
	}
	return account
}

func dedupAccounts(accounts []model.AdAccount) []model.AdAccount {
	seen := make(map[string]struct{}, len(accounts))
	out := make([]model.AdAccount, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

func (u *wizardUsecase) Status(ctx context.Context, sessionID string) (*model.Session, error) {
	return u.load(ctx, sessionID)
}

func (u *wizardUsecase) Accounts(ctx context.Context, sessionID string) ([]model.AdAccount, error) {
	session, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, ErrNotAuthorized
	}
	return session.AdAccounts, nil
}

// SelectAccount renders the downloadable credentials file for one discovered
// account and completes the wizard.
func (u *wizardUsecase) SelectAccount(ctx context.Context, sessionID, accountID string) (string, error) {
	session, err := u.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.AccessToken == "" {
		return "", ErrNotAuthorized
	}
	var selected *model.AdAccount
	for i := range session.AdAccounts {
		a := &session.AdAccounts[i]
		if a.ID == accountID || a.CleanID() == accountID {
			selected = a
			break
		}
	}
	if selected == nil {
		return "", ErrAccountNotFound
	}
	content := RenderEnvFile(session.AppID, session.AppSecret, session.AccessToken, selected.CleanID())
	session.Step = model.StepComplete
	if err := u.store.Save(ctx, session); err != nil {
		return "", err
	}
	return content, nil
}

// RenderEnvFile produces the plain-text key=value credentials file.
func RenderEnvFile(appID, appSecret, accessToken, accountID string) string {
	return fmt.Sprintf(
		"META_APP_ID=%s\nMETA_APP_SECRET=%s\nMETA_ACCESS_TOKEN=%s\nMETA_AD_ACCOUNT_ID=%s",
		appID, appSecret, accessToken, accountID,
	)
}

// Reset purges every persisted field and returns the session to its initial
// state. Valid from any step.
func (u *wizardUsecase) Reset(ctx context.Context, sessionID string) error {
	return u.store.Delete(ctx, sessionID)
}
