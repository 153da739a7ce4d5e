package accusation

import (
	"testing"

	"github.com/nightcouncil/mafia-game-backend/internal/archive"
	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/config"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/nightcouncil/mafia-game-backend/internal/trial"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupAccusationDB 准备一个处于第2天白天的内存数据库
func setupAccusationDB(t *testing.T) {
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
		&player.Player{}, &gamestate.GameState{}, &Accusation{},
		&trial.Trial{}, &trial.Vote{}, &archive.Entry{},
	))
	require.NoError(t, db.Create(&gamestate.GameState{CurrentDay: 2, Phase: gamestate.PhaseDay}).Error)

	config.Cfg = &config.Config{
		Game: config.GameConfig{TrialVotingWindowHours: 24, TrialPollIntervalSeconds: 1},
	}

	require.NoError(t, db.Create(&player.Player{
		PlayerID: "P001", Name: "Alice", Role: player.RoleVillager,
		Status: player.StatusAlive, CurrentVotingPower: 1,
	}).Error)
	require.NoError(t, db.Create(&player.Player{
		PlayerID: "P002", Name: "Bob", Role: player.RoleMafia,
		Status: player.StatusAlive, CurrentVotingPower: 1,
	}).Error)
}

func TestSubmitCreatesPending(t *testing.T) {
	setupAccusationDB(t)

	acc, err := Submit("P001", "P002", "他昨晚不在场")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, acc.Status)
	assert.Equal(t, 2, acc.Day)
	assert.False(t, acc.TrialStarted)
	assert.Nil(t, acc.ApprovalTime)

	_, err = Submit("P001", "P999", "")
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
}

func TestApproveOpensTrial(t *testing.T) {
	setupAccusationDB(t)
	acc, err := Submit("P001", "P002", "证据链接")
	require.NoError(t, err)

	tr, err := Approve(acc.AccusationID)
	require.NoError(t, err)
	assert.Equal(t, trial.StatusActive, tr.Status)
	assert.Equal(t, "P002", tr.DefendantID)
	assert.Equal(t, 0, tr.GuiltyTally)
	assert.Equal(t, 0, tr.NotGuiltyTally)

	stored, err := GetByID(acc.AccusationID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.True(t, stored.TrialStarted)
	require.NotNil(t, stored.ApprovalTime)

	// 批准的同时记录被告并切到审判阶段
	snap, err := gamestate.Current()
	require.NoError(t, err)
	assert.Equal(t, "P002", snap.LastAccusedPlayerID)
	assert.Equal(t, gamestate.PhaseTrial, snap.Phase)
}

func TestApproveWhileTrialActiveIsConflict(t *testing.T) {
	setupAccusationDB(t)
	first, err := Submit("P001", "P002", "")
	require.NoError(t, err)
	second, err := Submit("P002", "P001", "")
	require.NoError(t, err)

	_, err = Approve(first.AccusationID)
	require.NoError(t, err)

	// 已有审判在进行，第二次批准整体回滚
	_, err = Approve(second.AccusationID)
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))

	stored, err := GetByID(second.AccusationID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.False(t, stored.TrialStarted)
}

func TestStatusTransitionsAreOneWay(t *testing.T) {
	setupAccusationDB(t)
	acc, err := Submit("P001", "P002", "")
	require.NoError(t, err)

	require.NoError(t, Reject(acc.AccusationID))

	stored, err := GetByID(acc.AccusationID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	require.NotNil(t, stored.ApprovalTime)

	// 已处理的指控不能再次流转
	_, err = Approve(acc.AccusationID)
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))
	err = Reject(acc.AccusationID)
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))

	// 驳回不产生审判
	_, err = trial.GetActiveTrial()
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
}

func TestApproveMissingAccusation(t *testing.T) {
	setupAccusationDB(t)

	_, err := Approve("ACC_MISSING")
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
	assert.True(t, gameerror.Is(Reject("ACC_MISSING"), gameerror.KindNotFound))
}

func TestListPending(t *testing.T) {
	setupAccusationDB(t)
	first, err := Submit("P001", "P002", "")
	require.NoError(t, err)
	second, err := Submit("P002", "P001", "")
	require.NoError(t, err)

	require.NoError(t, Reject(first.AccusationID))

	pending, err := ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.AccusationID, pending[0].AccusationID)
}
