// Package testutil provides in-memory test doubles for the coordinator's
// external collaborators.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/db"
	"github.com/friesse/fragNet/internal/model"
)

type commendRow struct {
	sender      uint64
	target      uint64
	commendType int16
	createdAt   time.Time
}

type reportRow struct {
	sender     uint64
	target     uint64
	reportType int16
	matchID    uint64
	createdAt  time.Time
}

type itemRow struct {
	id    uint64
	owner string
}

// MockRepository is an in-memory db.Repository for unit tests. Time-window
// queries evaluate against Now, which tests may override to travel in time.
type MockRepository struct {
	mu sync.Mutex

	Now func() time.Time

	Ratings   map[uint64]model.PlayerSkillRating
	RatingErr error

	Banned    map[string]bool
	Cooldowns map[string]*model.Cooldown
	Medals    map[string]model.Medals

	commends []commendRow
	reports  []reportRow

	items      []itemRow
	nextItemID uint64

	Matches []db.MatchLog

	InsertCommendErr error
	InsertReportErr  error
}

var _ db.Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty mock.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		Now:       time.Now,
		Ratings:   make(map[uint64]model.PlayerSkillRating),
		Banned:    make(map[string]bool),
		Cooldowns: make(map[string]*model.Cooldown),
		Medals:    make(map[string]model.Medals),
	}
}

func (m *MockRepository) GetPlayerRating(_ context.Context, steamID uint64) (model.PlayerSkillRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RatingErr != nil {
		return model.PlayerSkillRating{}, m.RatingErr
	}
	r, ok := m.Ratings[steamID]
	if !ok {
		return model.PlayerSkillRating{}, db.ErrNotFound
	}
	return r, nil
}

func (m *MockRepository) UpdatePlayerRating(_ context.Context, steamID uint64, rating model.PlayerSkillRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ratings[steamID] = rating
	return nil
}

func (m *MockRepository) LogMatch(_ context.Context, ml db.MatchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Matches = append(m.Matches, ml)
	return nil
}

// AddCommend seeds a commendation row at the given time.
func (m *MockRepository) AddCommend(sender, target uint64, commendType int16, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commends = append(m.commends, commendRow{sender, target, commendType, at})
}

func (m *MockRepository) GetCommends(_ context.Context, target uint64) (model.CommendCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counts model.CommendCounts
	for _, c := range m.commends {
		if c.target != target {
			continue
		}
		switch c.commendType {
		case model.CommendFriendly:
			counts.Friendly++
		case model.CommendTeaching:
			counts.Teaching++
		case model.CommendLeader:
			counts.Leader++
		}
	}
	return counts, nil
}

func (m *MockRepository) GetCommendTokens(_ context.Context, sender uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.Now().Add(-constants.CommendTokenWindow)
	receivers := make(map[uint64]bool)
	for _, c := range m.commends {
		if c.sender == sender && c.createdAt.After(cutoff) {
			receivers[c.target] = true
		}
	}
	tokens := constants.CommendTokensPerDay - len(receivers)
	if tokens < 0 {
		tokens = 0
	}
	return tokens, nil
}

func (m *MockRepository) ListCommends(_ context.Context, sender, target uint64) (model.CommendFlags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.Now().Add(-constants.CommendPairWindow)
	var flags model.CommendFlags
	for _, c := range m.commends {
		if c.sender != sender || c.target != target || !c.createdAt.After(cutoff) {
			continue
		}
		switch c.commendType {
		case model.CommendFriendly:
			flags.Friendly = true
		case model.CommendTeaching:
			flags.Teaching = true
		case model.CommendLeader:
			flags.Leader = true
		}
	}
	return flags, nil
}

func (m *MockRepository) InsertCommend(_ context.Context, sender, target uint64, commendType int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertCommendErr != nil {
		return m.InsertCommendErr
	}
	m.commends = append(m.commends, commendRow{sender, target, commendType, m.Now()})
	return nil
}

func (m *MockRepository) DeleteCommend(_ context.Context, sender, target uint64, commendType int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.commends[:0]
	for _, c := range m.commends {
		if c.sender == sender && c.target == target && c.commendType == commendType {
			continue
		}
		kept = append(kept, c)
	}
	m.commends = kept
	return nil
}

// CommendCount returns the number of stored commend rows.
func (m *MockRepository) CommendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commends)
}

// AddReport seeds a report row at the given time.
func (m *MockRepository) AddReport(sender, target uint64, reportType int16, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, reportRow{sender, target, reportType, 0, at})
}

func (m *MockRepository) GetReportTokens(_ context.Context, sender uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.Now().Add(-constants.ReportRepeatWindow)
	receivers := make(map[uint64]bool)
	for _, r := range m.reports {
		if r.sender == sender && r.createdAt.After(cutoff) {
			receivers[r.target] = true
		}
	}
	tokens := constants.ReportTokensPerWeek - len(receivers)
	if tokens < 0 {
		tokens = 0
	}
	return tokens, nil
}

func (m *MockRepository) CountRecentReports(_ context.Context, sender, target uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.Now().Add(-constants.ReportRepeatWindow)
	count := 0
	for _, r := range m.reports {
		if r.sender == sender && r.target == target && r.createdAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (m *MockRepository) InsertReport(_ context.Context, sender, target uint64, reportType int16, matchID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertReportErr != nil {
		return m.InsertReportErr
	}
	m.reports = append(m.reports, reportRow{sender, target, reportType, matchID, m.Now()})
	return nil
}

// ReportCount returns the number of stored report rows.
func (m *MockRepository) ReportCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

func (m *MockRepository) IsBanned(_ context.Context, steamID2 string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Banned[steamID2], nil
}

func (m *MockRepository) GetLatestCooldown(_ context.Context, steamID2 string) (*model.Cooldown, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Cooldowns[steamID2], nil
}

func (m *MockRepository) ListMedals(_ context.Context, steamID2 string) (model.Medals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Medals[steamID2], nil
}

// AddItem appends an inventory item for a player and returns its id.
func (m *MockRepository) AddItem(steamID2 string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextItemID++
	m.items = append(m.items, itemRow{id: m.nextItemID, owner: steamID2})
	return m.nextItemID
}

func (m *MockRepository) LatestItemID(_ context.Context, steamID2 string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID uint64
	for _, it := range m.items {
		if it.owner == steamID2 && it.id > maxID {
			maxID = it.id
		}
	}
	return maxID, nil
}

func (m *MockRepository) CountItemsAfter(_ context.Context, steamID2 string, afterItemID uint64) (int, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	maxID := afterItemID
	for _, it := range m.items {
		if it.owner == steamID2 && it.id > afterItemID {
			count++
			if it.id > maxID {
				maxID = it.id
			}
		}
	}
	return count, maxID, nil
}

// MockValidator accepts every ticket and echoes the claimed id, unless Err
// or Reject are set.
type MockValidator struct {
	Err    error
	Reject bool
}

// Validate implements session.TicketValidator.
func (v *MockValidator) Validate(_ context.Context, ticket []byte, claimedSteamID uint64) (uint64, error) {
	if v.Err != nil {
		return 0, v.Err
	}
	if v.Reject || len(ticket) == 0 {
		return 0, fmt.Errorf("ticket rejected")
	}
	return claimedSteamID, nil
}
