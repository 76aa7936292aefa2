package social

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesse/fragNet/internal/constants"
	"github.com/friesse/fragNet/internal/model"
	"github.com/friesse/fragNet/internal/moderation"
	"github.com/friesse/fragNet/internal/protocol/clientpackets"
	"github.com/friesse/fragNet/internal/protocol/packet"
	"github.com/friesse/fragNet/internal/testutil"
)

const (
	senderID        = uint64(76561198000000001)
	targetAccountID = uint32(54321)
)

var targetID = model.SteamID64FromAccountID(targetAccountID)

type recordingSink struct {
	mu      sync.Mutex
	reports []moderation.Report
}

func (s *recordingSink) Enqueue(r moderation.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

type fixedStats struct{ online, servers, matches uint32 }

func (f fixedStats) PlayersOnline() uint32    { return f.online }
func (f fixedStats) ServersAvailable() uint32 { return f.servers }
func (f fixedStats) OngoingMatches() uint32   { return f.matches }

func newTestService() (*Service, *testutil.MockRepository, *recordingSink) {
	repo := testutil.NewMockRepository()
	sink := &recordingSink{}
	return NewService(repo, sink, fixedStats{online: 12, servers: 3, matches: 2}), repo, sink
}

type reportReply struct {
	confirmationID uint64
	result         uint32
	tokens         uint32
}

func decodeReportReply(t *testing.T, payload []byte) reportReply {
	t.Helper()

	r := packet.NewReader(payload)
	var out reportReply
	var err error
	out.confirmationID, err = r.ReadUint64()
	require.NoError(t, err)
	out.result, err = r.ReadUint32()
	require.NoError(t, err)
	out.tokens, err = r.ReadUint32()
	require.NoError(t, err)
	require.Zero(t, r.Remaining())
	return out
}

func TestBuildHello(t *testing.T) {
	svc, repo, _ := newTestService()
	steamID2 := model.SteamID64ToSteamID2(senderID)

	repo.Ratings[senderID] = model.PlayerSkillRating{Rank: 6, MMR: 1100, Wins: 42}
	repo.Banned[steamID2] = true
	repo.Cooldowns[steamID2] = &model.Cooldown{
		Reason: 3,
		Expire: time.Now().Add(90 * time.Second),
	}
	repo.AddCommend(999, senderID, model.CommendFriendly, time.Now())
	repo.AddCommend(998, senderID, model.CommendFriendly, time.Now())
	repo.AddCommend(997, senderID, model.CommendLeader, time.Now())

	payload := svc.BuildHello(context.Background(), senderID)

	r := packet.NewReader(payload)
	accountID, _ := r.ReadUint32()
	online, _ := r.ReadUint32()
	servers, _ := r.ReadUint32()
	matches, _ := r.ReadUint32()
	r.ReadUint32() // search avg
	blogURL, err := r.ReadString()
	require.NoError(t, err)
	pricesheet, _ := r.ReadUint32()
	vacBanned, _ := r.ReadBool()
	rankID, _ := r.ReadUint32()
	wins, _ := r.ReadUint32()
	friendly, _ := r.ReadUint32()
	teaching, _ := r.ReadUint32()
	leader, _ := r.ReadUint32()
	penaltyReason, _ := r.ReadInt32()
	penaltySeconds, err := r.ReadInt32()
	require.NoError(t, err)
	require.Zero(t, r.Remaining())

	assert.Equal(t, model.AccountID(senderID), accountID)
	assert.Equal(t, uint32(12), online)
	assert.Equal(t, uint32(3), servers)
	assert.Equal(t, uint32(2), matches)
	assert.Equal(t, constants.HelloBlogURL, blogURL)
	assert.Equal(t, constants.HelloPricesheetVersion, pricesheet)
	assert.True(t, vacBanned)
	assert.Equal(t, uint32(6), rankID)
	assert.Equal(t, uint32(42), wins)
	assert.Equal(t, uint32(2), friendly)
	assert.Equal(t, uint32(0), teaching)
	assert.Equal(t, uint32(1), leader)
	assert.Equal(t, int32(3), penaltyReason)
	assert.InDelta(t, 90, penaltySeconds, 2)
}

func TestBuildHelloAcknowledgedCooldownHidden(t *testing.T) {
	svc, repo, _ := newTestService()
	steamID2 := model.SteamID64ToSteamID2(senderID)

	repo.Cooldowns[steamID2] = &model.Cooldown{
		Reason:       3,
		Expire:       time.Now().Add(time.Hour),
		Acknowledged: true,
	}

	payload := svc.BuildHello(context.Background(), senderID)

	r := packet.NewReader(payload)
	for i := 0; i < 5; i++ {
		r.ReadUint32()
	}
	r.ReadString()
	r.ReadUint32()
	r.ReadBool()
	for i := 0; i < 5; i++ {
		r.ReadUint32()
	}
	penaltyReason, _ := r.ReadInt32()
	penaltySeconds, err := r.ReadInt32()
	require.NoError(t, err)

	assert.Zero(t, penaltyReason)
	assert.Zero(t, penaltySeconds)
}

func TestBuildHelloUnknownPlayerGetsDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	payload := svc.BuildHello(context.Background(), senderID)

	r := packet.NewReader(payload)
	for i := 0; i < 5; i++ {
		r.ReadUint32()
	}
	r.ReadString()
	r.ReadUint32()
	vacBanned, _ := r.ReadBool()
	rankID, _ := r.ReadUint32()
	wins, err := r.ReadUint32()
	require.NoError(t, err)

	assert.False(t, vacBanned)
	assert.Equal(t, model.DefaultRating().Rank, rankID)
	assert.Zero(t, wins)
}

func TestCommendSwapKeepsToken(t *testing.T) {
	svc, repo, _ := newTestService()

	// Existing friendly commendation inside the pair window.
	repo.AddCommend(senderID, targetID, model.CommendFriendly, time.Now().Add(-time.Hour))

	// Spend all tokens on other targets; the swap must still go through.
	repo.AddCommend(senderID, 1001, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1002, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1003, model.CommendFriendly, time.Now())

	svc.HandleCommend(context.Background(), senderID, clientpackets.CommendPlayer{
		AccountID: targetAccountID,
		Friendly:  clientpackets.CommendRemove,
		Teaching:  clientpackets.CommendAdd,
		Leader:    clientpackets.CommendUnchanged,
	})

	flags, err := repo.ListCommends(context.Background(), senderID, targetID)
	require.NoError(t, err)
	assert.False(t, flags.Friendly)
	assert.True(t, flags.Teaching)
	assert.False(t, flags.Leader)
}

func TestCommendNewPairNeedsToken(t *testing.T) {
	svc, repo, _ := newTestService()

	// All three tokens already spent today.
	repo.AddCommend(senderID, 1001, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1002, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1003, model.CommendFriendly, time.Now())
	before := repo.CommendCount()

	svc.HandleCommend(context.Background(), senderID, clientpackets.CommendPlayer{
		AccountID: targetAccountID,
		Friendly:  clientpackets.CommendAdd,
	})

	assert.Equal(t, before, repo.CommendCount(), "commend rejected without tokens")
}

func TestCommendAddSecondTypeNeedsNoToken(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.AddCommend(senderID, targetID, model.CommendFriendly, time.Now().Add(-time.Hour))
	repo.AddCommend(senderID, 1001, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1002, model.CommendFriendly, time.Now())
	repo.AddCommend(senderID, 1003, model.CommendFriendly, time.Now())

	svc.HandleCommend(context.Background(), senderID, clientpackets.CommendPlayer{
		AccountID: targetAccountID,
		Teaching:  clientpackets.CommendAdd,
	})

	flags, err := repo.ListCommends(context.Background(), senderID, targetID)
	require.NoError(t, err)
	assert.True(t, flags.Friendly)
	assert.True(t, flags.Teaching)
}

func TestCommendNoopRequest(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.AddCommend(senderID, targetID, model.CommendFriendly, time.Now().Add(-time.Hour))
	before := repo.CommendCount()

	// Adding an already present type and removing an absent one is a no-op.
	svc.HandleCommend(context.Background(), senderID, clientpackets.CommendPlayer{
		AccountID: targetAccountID,
		Friendly:  clientpackets.CommendAdd,
		Teaching:  clientpackets.CommendRemove,
	})

	assert.Equal(t, before, repo.CommendCount())
}

func TestCommendQueryResponse(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.AddCommend(senderID, targetID, model.CommendLeader, time.Now().Add(-time.Hour))
	repo.AddCommend(senderID, 1001, model.CommendFriendly, time.Now())

	payload, err := svc.HandleCommendQuery(context.Background(), senderID, targetAccountID)
	require.NoError(t, err)

	r := packet.NewReader(payload)
	accountID, _ := r.ReadUint32()
	friendly, _ := r.ReadBool()
	teaching, _ := r.ReadBool()
	leader, _ := r.ReadBool()
	tokens, err := r.ReadUint32()
	require.NoError(t, err)
	require.Zero(t, r.Remaining())

	assert.Equal(t, targetAccountID, accountID)
	assert.False(t, friendly)
	assert.False(t, teaching)
	assert.True(t, leader)
	assert.Equal(t, uint32(1), tokens, "3 minus 2 unique receivers in 24h")
}

func TestReport(t *testing.T) {
	svc, repo, sink := newTestService()

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
		MatchID:   777,
		Flags:     model.ReportFlags{Aimbot: true, Wallhack: true},
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultOK, reply.result)
	assert.Equal(t, uint32(5), reply.tokens)
	assert.NotZero(t, reply.confirmationID)

	assert.Equal(t, 2, repo.ReportCount(), "one row per flagged type")

	require.Equal(t, 1, sink.count())
	got := sink.reports[0]
	assert.Equal(t, senderID, got.ReporterSteamID)
	assert.Equal(t, targetID, got.TargetSteamID)
	assert.ElementsMatch(t, []int16{model.ReportAimbot, model.ReportWallhack}, got.Types)
}

func TestReportNoTokens(t *testing.T) {
	svc, repo, sink := newTestService()

	// Six distinct targets reported inside the week exhaust the budget.
	for i := uint64(0); i < 6; i++ {
		repo.AddReport(senderID, 2000+i, model.ReportGriefing, time.Now())
	}
	before := repo.ReportCount()

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
		Flags:     model.ReportFlags{Aimbot: true},
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultNoTokens, reply.result)
	assert.Zero(t, reply.tokens)
	assert.Equal(t, before, repo.ReportCount(), "no row persisted")
	assert.Zero(t, sink.count(), "nothing fanned out")
}

func TestReportAlreadyReported(t *testing.T) {
	svc, repo, sink := newTestService()

	repo.AddReport(senderID, targetID, model.ReportAimbot, time.Now().Add(-time.Hour))
	before := repo.ReportCount()

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
		Flags:     model.ReportFlags{Wallhack: true},
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultAlreadyReported, reply.result)
	assert.Equal(t, before, repo.ReportCount())
	assert.Zero(t, sink.count())
}

func TestReportSameTargetAfterWindow(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.AddReport(senderID, targetID, model.ReportAimbot, time.Now().Add(-8*24*time.Hour))

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
		Flags:     model.ReportFlags{Aimbot: true},
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultOK, reply.result)
}

func TestReportNoTypesFlagged(t *testing.T) {
	svc, repo, sink := newTestService()

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultError, reply.result)
	assert.Zero(t, repo.ReportCount())
	assert.Zero(t, sink.count())
}

func TestReportInsertFailure(t *testing.T) {
	svc, repo, sink := newTestService()
	repo.InsertReportErr = assert.AnError

	payload := svc.HandleReport(context.Background(), senderID, "Player 1", clientpackets.ReportPlayer{
		AccountID: targetAccountID,
		Flags:     model.ReportFlags{Aimbot: true},
	})

	reply := decodeReportReply(t, payload)
	assert.Equal(t, constants.ReportResultError, reply.result)
	assert.Zero(t, sink.count())
}

func TestBuildProfile(t *testing.T) {
	svc, repo, _ := newTestService()
	targetID2 := model.SteamID64ToSteamID2(targetID)

	repo.Ratings[targetID] = model.PlayerSkillRating{Rank: 13, MMR: 1400, Wins: 99, Level: 7}
	repo.Medals[targetID2] = model.Medals{DisplayItems: []uint32{901, 902}, Featured: 902}
	repo.AddCommend(999, targetID, model.CommendTeaching, time.Now())

	payload, err := svc.BuildProfile(context.Background(), targetAccountID)
	require.NoError(t, err)

	r := packet.NewReader(payload)
	accountID, _ := r.ReadUint32()
	rankID, _ := r.ReadUint32()
	wins, _ := r.ReadUint32()
	level, _ := r.ReadUint32()
	friendly, _ := r.ReadUint32()
	teaching, _ := r.ReadUint32()
	leader, _ := r.ReadUint32()
	featured, _ := r.ReadUint32()
	count, err := r.ReadByte()
	require.NoError(t, err)

	assert.Equal(t, targetAccountID, accountID)
	assert.Equal(t, uint32(13), rankID)
	assert.Equal(t, uint32(99), wins)
	assert.Equal(t, uint32(7), level)
	assert.Zero(t, friendly)
	assert.Equal(t, uint32(1), teaching)
	assert.Zero(t, leader)
	assert.Equal(t, uint32(902), featured)
	require.Equal(t, byte(2), count)

	first, _ := r.ReadUint32()
	second, err := r.ReadUint32()
	require.NoError(t, err)
	require.Zero(t, r.Remaining())
	assert.Equal(t, uint32(901), first)
	assert.Equal(t, uint32(902), second)
}
