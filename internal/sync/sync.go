// ABOUTME: Server-side sync semantics: pull, push, status, and registration.
// ABOUTME: Last-write-wins by date; each pushed date applies in its own transaction.
package sync

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

// pullWindowDays bounds how far back logs reach on an initial pull.
const pullWindowDays = 30

// Service implements the sync protocol over a store. Plans flow from the
// server to clients; logs flow both ways with last-write-wins per date.
type Service struct {
	store *storage.DB
}

// NewService creates a sync service backed by store.
func NewService(store *storage.DB) *Service {
	return &Service{store: store}
}

// PullResult carries everything a client needs to catch up.
type PullResult struct {
	Plans      map[string]*models.PlanDocument `json:"plans"`
	Logs       map[string]*models.LogDocument  `json:"logs"`
	ServerTime string                          `json:"serverTime"`
}

// PushResult reports which pushed dates were applied and which failed.
type PushResult struct {
	AppliedLogs []string    `json:"appliedLogs"`
	Failed      []PushError `json:"failed,omitempty"`
	ServerTime  string      `json:"serverTime"`
}

// PushError names one date whose log could not be applied.
type PushError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// Pull returns plans and logs for a client. With a watermark, only
// documents modified strictly after it are returned; without one, every
// plan plus the recent log window. Each document carries its server
// last_modified timestamp.
func (s *Service) Pull(clientID, lastSyncTime string) (*PullResult, error) {
	now := storage.UTCNow()
	if err := s.store.UpsertClient(clientID, "", now); err != nil {
		return nil, err
	}

	plans, err := s.store.PlansChangedSince(lastSyncTime)
	if err != nil {
		return nil, err
	}

	var logs []*storage.StoredLog
	if lastSyncTime != "" {
		logs, err = s.store.LogsChangedSince(lastSyncTime)
	} else {
		cutoff := time.Now().AddDate(0, 0, -pullWindowDays).Format(models.DateFormat)
		logs, err = s.store.LogsSinceDate(cutoff)
	}
	if err != nil {
		return nil, err
	}

	result := &PullResult{
		Plans:      make(map[string]*models.PlanDocument, len(plans)),
		Logs:       make(map[string]*models.LogDocument, len(logs)),
		ServerTime: now,
	}
	for _, p := range plans {
		p.Plan.ServerModified = p.LastModified
		result.Plans[p.Date] = p.Plan
	}
	for _, l := range logs {
		l.Log.ServerModified = l.LastModified
		result.Logs[l.Date] = l.Log
	}
	return result, nil
}

// Push applies a client's logs in ascending date order. Every date is
// written in its own transaction so one bad document cannot sink the
// batch; failures are reported per date. The sync watermark is stamped
// with the push timestamp afterwards.
func (s *Service) Push(clientID string, logs map[string]*models.LogDocument) (*PushResult, error) {
	now := storage.UTCNow()
	if err := s.store.UpsertClient(clientID, "", now); err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	result := &PushResult{AppliedLogs: []string{}, ServerTime: now}
	for _, date := range dates {
		if err := models.ValidateDate(date); err != nil {
			result.Failed = append(result.Failed, PushError{Date: date, Error: err.Error()})
			continue
		}
		if err := s.store.SaveLog(date, logs[date], clientID, now); err != nil {
			result.Failed = append(result.Failed, PushError{Date: date, Error: err.Error()})
			continue
		}
		result.AppliedLogs = append(result.AppliedLogs, date)
	}

	if err := s.store.SetLastServerSyncTime(now); err != nil {
		return nil, err
	}
	return result, nil
}

// Status returns the sync watermark, empty until the first push.
func (s *Service) Status() (string, error) {
	return s.store.LastServerSyncTime()
}

// Register stores a client under the given name, replacing any previous
// registration. A blank id gets a generated one, so a device can register
// before it has an identity; the effective id is returned. An empty name
// gets the derived default.
func (s *Service) Register(clientID, clientName string) (string, error) {
	if clientID == "" {
		clientID = uuid.New().String()
	}
	if err := s.store.RegisterClient(clientID, clientName, storage.UTCNow()); err != nil {
		return "", err
	}
	return clientID, nil
}
