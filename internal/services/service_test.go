package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/repos"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/types"
)

// The model structs carry postgres uuid defaults, so test tables are created
// with plain DDL instead of AutoMigrate. Services always assign ids
// themselves, making the defaults irrelevant here.
var testSchema = []string{
	`CREATE TABLE user (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		role TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE user_token (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE assessment (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		entity_name TEXT NOT NULL,
		title TEXT,
		industry TEXT,
		market_cap_phase TEXT,
		fiscal_year TEXT,
		fy_end_month INTEGER NOT NULL DEFAULT 3,
		status TEXT NOT NULL DEFAULT 'draft',
		metadata TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE response (
		id TEXT PRIMARY KEY,
		assessment_id TEXT NOT NULL,
		criterion_id TEXT NOT NULL,
		pillar TEXT NOT NULL,
		category TEXT NOT NULL,
		standard TEXT NOT NULL,
		score INTEGER,
		notes TEXT,
		evidence_text TEXT,
		scored_by TEXT,
		scored_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		UNIQUE (assessment_id, criterion_id)
	)`,
	`CREATE TABLE review (
		id TEXT PRIMARY KEY,
		assessment_id TEXT NOT NULL,
		reviewer_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		opinion TEXT,
		summary TEXT,
		submitted_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE review_item (
		id TEXT PRIMARY KEY,
		review_id TEXT NOT NULL,
		control_id TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'not_reviewed',
		comment TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		UNIQUE (review_id, control_id)
	)`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

type serviceFixture struct {
	db          *gorm.DB
	cat         *catalog.Catalog
	assessments AssessmentService
	reviews     ReviewService
	dashboard   DashboardService
	userID      uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := openTestDB(t)
	log := testLogger(t)
	cat := testCatalog(t)

	userRepo := repos.NewUserRepo(db, log)
	assessmentRepo := repos.NewAssessmentRepo(db, log)
	responseRepo := repos.NewResponseRepo(db, log)
	reviewRepo := repos.NewReviewRepo(db, log)

	userID := uuid.New()
	user := &types.User{
		ID:        userID,
		Email:     "kenji.sato@example.co.jp",
		Password:  "hashed",
		FirstName: "Kenji",
		LastName:  "Sato",
		Role:      types.RoleMember,
	}
	if _, err := userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return &serviceFixture{
		db:          db,
		cat:         cat,
		assessments: NewAssessmentService(db, log, cat, assessmentRepo, responseRepo, nil),
		reviews:     NewReviewService(db, log, cat, reviewRepo, assessmentRepo),
		dashboard:   NewDashboardService(log, assessmentRepo, responseRepo),
		userID:      userID,
	}
}

func (f *serviceFixture) createAssessment(t *testing.T) *types.Assessment {
	t.Helper()
	a, err := f.assessments.Create(context.Background(), f.userID, CreateAssessmentInput{
		EntityName: "Teikoku Precision K.K.",
		FiscalYear: "FY2027",
		FYEndMonth: 3,
	})
	if err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	return a
}

// scoreEverything submits the same score for every catalog criterion.
func (f *serviceFixture) scoreEverything(t *testing.T, assessmentID uuid.UUID, score int) *types.Assessment {
	t.Helper()
	var scores []ScoreInput
	for _, c := range f.cat.Criteria() {
		s := score
		scores = append(scores, ScoreInput{CriterionID: c.ID, Score: &s})
	}
	a, err := f.assessments.SaveScores(context.Background(), f.userID, assessmentID, scores)
	if err != nil {
		t.Fatalf("save scores: %v", err)
	}
	return a
}
