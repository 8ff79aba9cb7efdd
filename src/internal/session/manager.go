package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/token"

	"github.com/sirupsen/logrus"
)

// DefaultSafetyMargin is the remaining validity below which a session counts as expired.
const DefaultSafetyMargin = time.Minute

// Storage is the key/value collaborator the session is persisted in.
// Get reports found=false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Event describes a session state change.
type Event struct {
	Action      string
	Fingerprint string
	ExpiresAt   time.Time
	Reason      string
}

// Notifier receives session events after the state change is applied.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Notifiers fans an event out to several notifiers.
type Notifiers []Notifier

func (n Notifiers) Notify(ctx context.Context, event Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(ctx, event)
		}
	}
}

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	Clock          Clock
	Scheduler      Scheduler
	Notifier       Notifier
	SafetyMargin   time.Duration
	StorageTimeout time.Duration
}

// RestoredSession is a persisted session that is still usable.
type RestoredSession struct {
	Token     string
	ExpiresAt time.Time
	Remaining time.Duration
}

// State is a point-in-time view of the manager.
type State struct {
	Token     string
	LoggedIn  bool
	ExpiresAt time.Time
	Remaining time.Duration
}

// Manager owns the active session: in-memory token, persisted copy and the
// auto-logout timer.
type Manager struct {
	store     Storage
	clock     Clock
	scheduler Scheduler
	notifier  Notifier
	margin    time.Duration
	timeout   time.Duration

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	timer     Handle
	// generation advances on every login/logout so a timer armed for an
	// older session does nothing when it fires.
	generation uint64
}

// New creates a manager and restores any persisted session that is still valid.
func New(ctx context.Context, store Storage, opts Options) *Manager {
	m := &Manager{
		store:     store,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		notifier:  opts.Notifier,
		margin:    opts.SafetyMargin,
		timeout:   opts.StorageTimeout,
	}
	if m.clock == nil {
		m.clock = SystemClock()
	}
	if m.scheduler == nil {
		m.scheduler = TimerScheduler()
	}
	if m.notifier == nil {
		m.notifier = Notifiers(nil)
	}
	if m.margin <= 0 {
		m.margin = DefaultSafetyMargin
	}
	if m.timeout <= 0 {
		m.timeout = 5 * time.Second
	}

	m.initialize(ctx)
	return m
}

func (m *Manager) initialize(ctx context.Context) {
	restored, err := m.RestoreSession(ctx)
	if err != nil {
		logrus.WithError(err).Info("No persisted session restored, starting logged out")
		return
	}

	m.mu.Lock()
	m.token = restored.Token
	m.expiresAt = restored.ExpiresAt
	m.generation++
	m.armLocked(restored.Remaining)
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"fingerprint": Fingerprint(restored.Token),
		"expires_at":  restored.ExpiresAt,
		"remaining":   restored.Remaining.String(),
	}).Info("Session restored from storage")

	m.notifier.Notify(ctx, Event{
		Action:      models.ActionRestored,
		Fingerprint: Fingerprint(restored.Token),
		ExpiresAt:   restored.ExpiresAt,
	})
}

// ComputeRemainingDuration returns how long until expirationTime.
// The result is negative once it has passed.
func (m *Manager) ComputeRemainingDuration(expirationTime time.Time) time.Duration {
	return expirationTime.Sub(m.clock.Now())
}

// RestoreSession reads the persisted session. A missing, malformed or nearly
// expired session is purged from storage and reported as ErrSessionNotFound,
// ErrSessionInvalid or ErrSessionExpired. Storage read failures are returned
// without purging.
func (m *Manager) RestoreSession(ctx context.Context) (*RestoredSession, error) {
	m.mu.Lock()
	restored, purged, err := m.restoreLocked(ctx)
	m.mu.Unlock()

	if purged {
		logrus.WithField("reason", err.Error()).Debug("Persisted session purged")
		if !errors.Is(err, models.ErrSessionNotFound) {
			m.notifier.Notify(ctx, Event{Action: models.ActionPurged, Reason: err.Error()})
		}
	}
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// restoreLocked reports purged=true when the persisted state was unusable and
// has been removed; err then carries the reason.
func (m *Manager) restoreLocked(ctx context.Context) (*RestoredSession, bool, error) {
	restored, reason := m.readPersistedLocked(ctx)
	if reason == nil {
		return restored, false, nil
	}

	if errors.Is(reason, models.ErrStorageRead) {
		logrus.WithError(reason).Error("Failed to read persisted session")
		return nil, false, reason
	}

	if err := m.removePersistedLocked(ctx); err != nil {
		logrus.WithError(err).Error("Failed to purge persisted session")
		return nil, false, errors.Join(reason, err)
	}
	return nil, true, reason
}

func (m *Manager) readPersistedLocked(ctx context.Context) (*RestoredSession, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	tok, tokFound, err := m.store.Get(ctx, models.KeyToken)
	if err != nil {
		return nil, err
	}
	rawExp, expFound, err := m.store.Get(ctx, models.KeyExpirationTime)
	if err != nil {
		return nil, err
	}

	if !tokFound || !expFound {
		return nil, models.ErrSessionNotFound
	}

	expiresAt, err := ParseExpiration(rawExp)
	if err != nil {
		return nil, err
	}

	remaining := m.ComputeRemainingDuration(expiresAt)
	if remaining <= m.margin {
		return nil, fmt.Errorf("%w: %s remaining", models.ErrSessionExpired, remaining)
	}

	if tok == "" {
		return nil, fmt.Errorf("%w: empty token", models.ErrSessionNotFound)
	}

	return &RestoredSession{Token: tok, ExpiresAt: expiresAt, Remaining: remaining}, nil
}

// Login replaces the current session, persists it and arms the auto-logout
// timer. The in-memory state is applied even when persisting fails.
func (m *Manager) Login(ctx context.Context, tok string, expirationTime time.Time) error {
	if tok == "" {
		return models.ErrTokenRequired
	}

	m.mu.Lock()
	m.token = tok
	m.expiresAt = expirationTime
	m.cancelLocked()
	m.generation++
	remaining := m.ComputeRemainingDuration(expirationTime)
	m.armLocked(remaining)
	err := m.persistLocked(ctx, tok, expirationTime)
	m.mu.Unlock()

	fields := logrus.Fields{
		"fingerprint": Fingerprint(tok),
		"expires_at":  expirationTime,
		"remaining":   remaining.String(),
	}
	if err != nil {
		logrus.WithError(err).WithFields(fields).Error("Session persisted incompletely")
	} else {
		logrus.WithFields(fields).Info("Logged in")
	}

	m.notifier.Notify(ctx, Event{
		Action:      models.ActionLogin,
		Fingerprint: Fingerprint(tok),
		ExpiresAt:   expirationTime,
	})
	return err
}

// LoginWithToken logs in with the expiration taken from the token's exp claim.
func (m *Manager) LoginWithToken(ctx context.Context, tok string) error {
	expirationTime, err := token.ExpirationFromJWT(tok)
	if err != nil {
		return err
	}
	return m.Login(ctx, tok, expirationTime)
}

// Logout clears the session everywhere. Calling it while logged out only
// re-removes the persisted keys.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	event, err := m.clearLocked(ctx, models.ActionLogout)
	m.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Failed to remove persisted session")
	}
	if event != nil {
		logrus.WithField("fingerprint", event.Fingerprint).Info("Logged out")
		m.notifier.Notify(ctx, *event)
	}
	return err
}

// expire runs when the auto-logout timer fires.
func (m *Manager) expire(generation uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	event, err := m.clearLocked(ctx, models.ActionExpired)
	m.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Failed to remove expired session from storage")
	}
	if event != nil {
		logrus.WithField("fingerprint", event.Fingerprint).Info("Session expired, logged out")
		m.notifier.Notify(ctx, *event)
	}
}

// clearLocked resets the session and returns the event to publish, nil when
// there was no session to clear.
func (m *Manager) clearLocked(ctx context.Context, action string) (*Event, error) {
	var event *Event
	if m.token != "" {
		event = &Event{
			Action:      action,
			Fingerprint: Fingerprint(m.token),
			ExpiresAt:   m.expiresAt,
		}
	}

	m.token = ""
	m.expiresAt = time.Time{}
	m.cancelLocked()
	m.generation++

	return event, m.removePersistedLocked(ctx)
}

func (m *Manager) armLocked(d time.Duration) {
	generation := m.generation
	m.timer = m.scheduler.Schedule(d, func() { m.expire(generation) })
}

func (m *Manager) cancelLocked() {
	if m.timer != nil {
		m.scheduler.Cancel(m.timer)
		m.timer = nil
	}
}

func (m *Manager) persistLocked(ctx context.Context, tok string, expirationTime time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.store.Set(ctx, models.KeyToken, tok); err != nil {
		return err
	}
	return m.store.Set(ctx, models.KeyExpirationTime, FormatExpiration(expirationTime))
}

func (m *Manager) removePersistedLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return errors.Join(
		m.store.Remove(ctx, models.KeyToken),
		m.store.Remove(ctx, models.KeyExpirationTime),
	)
}

// Token returns the in-memory token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

// Session returns a snapshot of the current state.
func (m *Manager) Session() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := State{Token: m.token, LoggedIn: m.token != ""}
	if state.LoggedIn {
		state.ExpiresAt = m.expiresAt
		state.Remaining = m.ComputeRemainingDuration(m.expiresAt)
	}
	return state
}

// Close stops the pending timer and leaves the persisted session in place
// for the next start.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	m.generation++
}
