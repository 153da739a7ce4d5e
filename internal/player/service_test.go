package player

import (
	"testing"

	"github.com/nightcouncil/mafia-game-backend/internal/platform/database"
	"github.com/nightcouncil/mafia-game-backend/pkg/gameerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用内存SQLite替换全局数据库，不启动Redis
func setupTestDB(t *testing.T) {
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
	require.NoError(t, db.AutoMigrate(&Player{}))
}

func seedPlayer(t *testing.T, p Player) {
	t.Helper()
	if p.Status == "" {
		p.Status = StatusAlive
	}
	if p.CurrentVotingPower == 0 {
		p.CurrentVotingPower = 1
	}
	require.NoError(t, database.DB.Create(&p).Error)
}

func TestCreateAppliesDefaults(t *testing.T) {
	setupTestDB(t)

	p := Player{PlayerID: "P001", Name: "Alice"}
	require.NoError(t, Create(&p))
	assert.Equal(t, RoleVillager, p.Role)
	assert.Equal(t, StatusAlive, p.Status)
	assert.Equal(t, 1, p.CurrentVotingPower)

	// 重复注册同一ID被拒绝
	err := Create(&Player{PlayerID: "P001", Name: "Alias"})
	assert.True(t, gameerror.Is(err, gameerror.KindConflict))

	err = Create(&Player{PlayerID: "", Name: "NoID"})
	assert.True(t, gameerror.Is(err, gameerror.KindValidation))
}

func TestGetByID(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleVillager})

	p, err := GetByID("P001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, RoleVillager, p.Role)
	assert.Equal(t, StatusAlive, p.Status)

	_, err = GetByID("P999")
	require.Error(t, err)
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
}

func TestGetByNameIsCaseInsensitive(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleVillager})

	p, err := GetByName("aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "P001", p.PlayerID)

	_, err = GetByName("Bob")
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))
}

func TestListWithFilter(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleVillager})
	seedPlayer(t, Player{PlayerID: "P002", Name: "Bob", Role: RoleMafia})
	seedPlayer(t, Player{PlayerID: "P003", Name: "Carol", Role: RoleVillager, Status: StatusDead})

	all, err := List(Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alive, err := List(Filter{Status: StatusAlive})
	require.NoError(t, err)
	assert.Len(t, alive, 2)

	aliveVillagers, err := List(Filter{Status: StatusAlive, Role: RoleVillager})
	require.NoError(t, err)
	require.Len(t, aliveVillagers, 1)
	assert.Equal(t, "P001", aliveVillagers[0].PlayerID)
}

func TestUpdateFieldsIsFieldLevelPatch(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleVillager, VillagerCanChangeRole: true})

	// 两次只碰不同字段的补丁不应互相覆盖
	require.NoError(t, UpdateFields("P001", map[string]interface{}{"status": StatusDead}))
	require.NoError(t, UpdateFields("P001", map[string]interface{}{"villager_can_change_role": false}))

	p, err := GetByID("P001")
	require.NoError(t, err)
	assert.Equal(t, StatusDead, p.Status)
	assert.False(t, p.VillagerCanChangeRole)
	assert.Equal(t, "Alice", p.Name)

	err = UpdateFields("P999", map[string]interface{}{"status": StatusDead})
	assert.True(t, gameerror.Is(err, gameerror.KindNotFound))

	err = UpdateFields("P001", map[string]interface{}{})
	assert.True(t, gameerror.Is(err, gameerror.KindValidation))
}

func TestResetNightFlags(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleMafia, MainUsed: true, NightVoteUsed: true, SheriffShotUsed: true})
	seedPlayer(t, Player{PlayerID: "P002", Name: "Bob", Role: RoleDoctor, MainUsed: true, DoctorCanRevive: true})

	require.NoError(t, ResetNightFlags(database.DB))

	p1, err := GetByID("P001")
	require.NoError(t, err)
	assert.False(t, p1.MainUsed)
	assert.False(t, p1.NightVoteUsed)
	// 一次性标志不随夜晚重置
	assert.True(t, p1.SheriffShotUsed)

	p2, err := GetByID("P002")
	require.NoError(t, err)
	assert.False(t, p2.MainUsed)
	assert.True(t, p2.DoctorCanRevive)
}

func TestExistsFallsBackToSqlite(t *testing.T) {
	setupTestDB(t)
	seedPlayer(t, Player{PlayerID: "P001", Name: "Alice", Role: RoleVillager})

	ok, err := Exists("P001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists("P999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAbilityColumn(t *testing.T) {
	col, ok := AbilityColumn("DoctorCanRevive")
	require.True(t, ok)
	assert.Equal(t, "doctor_can_revive", col)

	_, ok = AbilityColumn("FlyToTheMoon")
	assert.False(t, ok)
}

func TestListHelpers(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"P003:YES", "P007:NO"}, SplitList("P003:YES,P007:NO"))
	assert.Equal(t, "P003:YES", AppendList("", "P003:YES"))
	assert.Equal(t, "P003:YES,P007:NO", AppendList("P003:YES", "P007:NO"))
}
