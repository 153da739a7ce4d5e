package archive

import (
	"testing"

	"github.com/nightcouncil/mafia-game-backend/internal/gamestate"
	"github.com/nightcouncil/mafia-game-backend/internal/night"
	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupArchiveDB 准备一个处于第2天夜晚的内存数据库
func setupArchiveDB(t *testing.T) {
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
		&player.Player{}, &gamestate.GameState{},
		&night.NightAction{}, &night.NightVote{}, &Entry{},
	))
	require.NoError(t, db.Create(&gamestate.GameState{CurrentDay: 2, Phase: gamestate.PhaseNight}).Error)
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

func getPlayer(t *testing.T, id string) player.Player {
	t.Helper()
	var p player.Player
	require.NoError(t, database.DB.Where("player_id = ?", id).First(&p).Error)
	return p
}

func TestResolveNightKillVersusProtect(t *testing.T) {
	setupArchiveDB(t)
	seedPlayer(t, player.Player{PlayerID: "M001", Name: "Mia", Role: player.RoleMafia})
	seedPlayer(t, player.Player{PlayerID: "DOC1", Name: "Doc", Role: player.RoleDoctor})
	seedPlayer(t, player.Player{PlayerID: "V001", Name: "Vic", Role: player.RoleVillager})
	seedPlayer(t, player.Player{PlayerID: "V002", Name: "Val", Role: player.RoleVillager})

	// V001被击杀且被保护，V002只被击杀
	require.NoError(t, night.SubmitKill("M001", "V001"))
	require.NoError(t, night.SubmitProtect("DOC1", "V001"))
	require.NoError(t, database.DB.Model(&player.Player{}).
		Where("player_id = ?", "M001").Update("main_used", false).Error)
	require.NoError(t, night.SubmitKill("M001", "V002"))

	outcome, err := ResolveNight(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"V001"}, outcome.Saves)
	assert.Equal(t, []string{"V002"}, outcome.Deaths)

	assert.Equal(t, player.StatusAlive, getPlayer(t, "V001").Status)
	assert.Equal(t, player.StatusDead, getPlayer(t, "V002").Status)

	entries, err := Recap(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, OutcomeSaved, entries[0].Outcome)
	assert.Equal(t, OutcomeDied, entries[1].Outcome)
}

func TestResolveNightSheriffIgnoresProtection(t *testing.T) {
	setupArchiveDB(t)
	seedPlayer(t, player.Player{PlayerID: "S001", Name: "Sher", Role: player.RoleSheriff})
	seedPlayer(t, player.Player{PlayerID: "DOC1", Name: "Doc", Role: player.RoleDoctor})
	seedPlayer(t, player.Player{PlayerID: "M001", Name: "Mia", Role: player.RoleMafia})

	require.NoError(t, night.SubmitProtect("DOC1", "M001"))
	require.NoError(t, night.Shoot("S001", "M001"))

	outcome, err := ResolveNight(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"M001"}, outcome.Deaths)
	assert.Equal(t, player.StatusDead, getPlayer(t, "M001").Status)

	entries, err := Recap(2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EventSheriffShot, entries[0].ActionType)
}

func TestResolveNightIsIdempotent(t *testing.T) {
	setupArchiveDB(t)
	seedPlayer(t, player.Player{PlayerID: "M001", Name: "Mia", Role: player.RoleMafia})
	seedPlayer(t, player.Player{PlayerID: "V001", Name: "Vic", Role: player.RoleVillager})

	require.NoError(t, night.SubmitKill("M001", "V001"))

	_, err := ResolveNight(2)
	require.NoError(t, err)

	// 行动已翻转为Resolved，重复结算不再产生事件
	outcome, err := ResolveNight(2)
	require.NoError(t, err)
	assert.Empty(t, outcome.Deaths)
	assert.Empty(t, outcome.Saves)

	entries, err := Recap(2)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecapEmptyDay(t *testing.T) {
	setupArchiveDB(t)

	entries, err := Recap(7)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
