package trial

import (
	"testing"
	"time"

	"github.com/nightcouncil/mafia-game-backend/internal/archive"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTrialDB 准备一个带游戏状态和玩家注册表的内存数据库
func setupTrialDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	database.RDB = nil
	require.NoError(t, db.AutoMigrate(
		&player.Player{}, &gamestate.GameState{}, &Trial{}, &Vote{}, &archive.Entry{},
	))
	require.NoError(t, db.Create(&gamestate.GameState{CurrentDay: 3, Phase: gamestate.PhaseTrial}).Error)

	config.Cfg = &config.Config{
		Game: config.GameConfig{TrialVotingWindowHours: 24, TrialPollIntervalSeconds: 1},
	}
}

func seedPlayer(t *testing.T, p player.Player) {
	t.Helper()
	if p.Status == "" {
		p.Status = player.StatusAlive
	}
	if p.CurrentVotingPower == 0 {
		p.CurrentVotingPower = 1
	}
	require.NoError(t, database.DB.Create(&p).Error)
}

func openTestTrial(t *testing.T, defendantID string) *Trial {
	t.Helper()
	var opened *Trial
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		tr, err := Open(tx, "ACC_TEST", defendantID, 3)
		opened = tr
		return err
	})
	require.NoError(t, err)
	return opened
}

func getPlayer(t *testing.T, id string) player.Player {
	t.Helper()
	var p player.Player
	require.NoError(t, database.DB.Where("player_id = ?", id).First(&p).Error)
	return p
}

func TestOpenEmpanelsJury(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleMafia})
	seedPlayer(t, player.Player{PlayerID: "P003", Name: "Carol", Role: player.RoleVillager, Status: player.StatusDead})

	tr := openTestTrial(t, "P002")
	assert.Equal(t, StatusActive, tr.Status)
	assert.Equal(t, 0, tr.GuiltyTally)
	assert.Equal(t, 0, tr.NotGuiltyTally)
	assert.True(t, tr.VotingDeadline.After(time.Now()))

	// 存活且非被告的玩家成为陪审团成员
	assert.True(t, getPlayer(t, "P001").IsJuryMember)
	assert.False(t, getPlayer(t, "P002").IsJuryMember)
	assert.False(t, getPlayer(t, "P003").IsJuryMember)
}

func TestOpenRejectsSecondActiveTrial(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	openTestTrial(t, "P001")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		_, err := Open(tx, "ACC_TEST2", "P001", 3)
		return err
	})
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))
}

func TestCastVoteTallyMatchesBallots(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager, CurrentVotingPower: 2})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P003", Name: "Mal", Role: player.RoleMafia})
	tr := openTestTrial(t, "P003")

	updated, err := CastVote("P001", tr.TrialID, VoteGuilty)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.GuiltyTally)

	updated, err = CastVote("P002", tr.TrialID, VoteNotGuilty)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.GuiltyTally)
	assert.Equal(t, 1, updated.NotGuiltyTally)

	// 投票即清除陪审资格
	assert.False(t, getPlayer(t, "P001").IsJuryMember)
	assert.False(t, getPlayer(t, "P002").IsJuryMember)

	// 第三次投票尝试被拒绝
	_, err = CastVote("P001", tr.TrialID, VoteGuilty)
	assert.True(t, gameerror.Is(err, gameerror.KindForbidden))

	// 票数等于所有选票权重之和
	votes, err := ListVotesByTrial(tr.TrialID)
	require.NoError(t, err)
	sum := 0
	for _, v := range votes {
		sum += v.VotingPower
	}
	assert.Equal(t, updated.GuiltyTally+updated.NotGuiltyTally, sum)
}

func TestCastVoteValidation(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	tr := openTestTrial(t, "P001")

	_, err := CastVote("P001", tr.TrialID, "MAYBE")
	assert.True(t, gameerror.Is(err, gameerror.KindValidation))

	_, err = CastVote("P001", "TRIAL_MISSING", VoteGuilty)
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))

	_, err = CastVote("P999", tr.TrialID, VoteGuilty)
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
}

func TestGetActiveTrial(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})

	_, err := GetActiveTrial()
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))

	opened := openTestTrial(t, "P001")
	active, err := GetActiveTrial()
	require.NoError(t, err)
	assert.Equal(t, opened.TrialID, active.TrialID)
}

func TestResolveTrialGuilty(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager, CurrentVotingPower: 2})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P003", Name: "Mal", Role: player.RoleMafia})
	tr := openTestTrial(t, "P003")

	_, err := CastVote("P001", tr.TrialID, VoteGuilty)
	require.NoError(t, err)
	_, err = CastVote("P002", tr.TrialID, VoteNotGuilty)
	require.NoError(t, err)

	resolved, err := ResolveTrial(tr.TrialID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)
	assert.Equal(t, VerdictGuilty, resolved.Verdict)

	// 被告出局，判决落档，阶段回到白天
	assert.Equal(t, player.StatusDead, getPlayer(t, "P003").Status)

	entries, err := archive.Recap(3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, archive.EventTrialVerdict, entries[0].ActionType)
	assert.Equal(t, archive.OutcomeGuilty, entries[0].Outcome)

	snap, err := gamestate.Current()
	require.NoError(t, err)
	assert.Equal(t, gamestate.PhaseDay, snap.Phase)

	// 重复结案被拒绝
	_, err = ResolveTrial(tr.TrialID)
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))
}

func TestResolveTrialTieIsNotGuilty(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P003", Name: "Mal", Role: player.RoleMafia})
	tr := openTestTrial(t, "P003")

	_, err := CastVote("P001", tr.TrialID, VoteGuilty)
	require.NoError(t, err)
	_, err = CastVote("P002", tr.TrialID, VoteNotGuilty)
	require.NoError(t, err)

	resolved, err := ResolveTrial(tr.TrialID)
	require.NoError(t, err)
	assert.Equal(t, VerdictNotGuilty, resolved.Verdict)
	assert.Equal(t, player.StatusAlive, getPlayer(t, "P003").Status)
}

func TestResolveTrialClearsRemainingJury(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleVillager})
	tr := openTestTrial(t, "P002")

	// P001未投票就结案，资格也应被撤销
	_, err := ResolveTrial(tr.TrialID)
	require.NoError(t, err)
	assert.False(t, getPlayer(t, "P001").IsJuryMember)
}

func TestResolveOverdue(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	tr := openTestTrial(t, "P001")

	// 窗口未到期，不结案
	n, err := ResolveOverdue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ResolveOverdue(time.Now().Add(25 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	resolved, err := GetByID(tr.TrialID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)
}

func TestListVotesByVoter(t *testing.T) {
	setupTrialDB(t)
	seedPlayer(t, player.Player{PlayerID: "P001", Name: "Alice", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "P002", Name: "Bob", Role: player.RoleVillager})
	tr := openTestTrial(t, "P002")

	_, err := CastVote("P001", tr.TrialID, VoteGuilty)
	require.NoError(t, err)

	votes, err := ListVotesByVoter("P001")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, tr.TrialID, votes[0].TrialID)
	assert.Equal(t, VoteGuilty, votes[0].VoteType)

	votes, err = ListVotesByVoter("P002")
	require.NoError(t, err)
	assert.Empty(t, votes)
}
