// Command setup-database creates the tables and storage bucket the campaign
// dashboard needs. It is safe to run repeatedly. With -check it only reports
// how the live campaign table compares to the model.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/database"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/database/repository"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
)

func main() {
	check := flag.Bool("check", false, "report the campaign table columns and indexes without changing anything")
	maxFileSize := flag.Int64("max-file-size", 30*1024*1024, "maximum attachment size in bytes for a newly registered bucket")
	extensions := flag.String("extensions", "jpg,jpeg,png,gif,webp,mp4,mov,pdf", "allowed extensions for a newly registered bucket")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if missing := cfg.Submission.Missing(); len(missing) > 0 {
		logrus.Fatalf("Missing configuration: %s", strings.Join(missing, ", "))
	}

	ctx := context.Background()
	if *check {
		if err := checkDatabase(ctx, cfg); err != nil {
			logrus.Fatalf("Check failed: %v", err)
		}
		return
	}

	if err := setupDatabase(ctx, cfg, &models.Bucket{
		ID:                    cfg.Submission.BucketID,
		Name:                  cfg.Submission.BucketID,
		Enabled:               true,
		MaximumFileSize:       *maxFileSize,
		AllowedFileExtensions: *extensions,
	}); err != nil {
		logrus.Fatalf("Setup failed: %v", err)
	}
}

func setupDatabase(ctx context.Context, cfg *config.Config, bucket *models.Bucket) error {
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	table, err := database.CampaignTable(cfg.Submission.DatabaseID, cfg.Submission.CollectionID)
	if err != nil {
		return err
	}
	existed, err := database.TableExists(db, table)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", table, err)
	}

	if err := database.Migrate(db, cfg.Submission); err != nil {
		return err
	}
	if existed {
		logrus.Infof("Campaign table %s already existed, missing columns were added", table)
	} else {
		logrus.Infof("Campaign table %s created", table)
	}

	created, err := repository.NewBucketRepository(db).Upsert(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to register bucket %s: %w", bucket.ID, err)
	}
	if created {
		logrus.Infof("Bucket %s registered", bucket.ID)
	} else {
		logrus.Infof("Bucket %s already registered, settings left unchanged", bucket.ID)
	}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	present, err := objects.BucketExists(ctx, bucket.ID)
	if err != nil {
		return fmt.Errorf("failed to check backend bucket %s: %w", bucket.ID, err)
	}
	if present {
		logrus.Infof("Backend bucket %s already existed", bucket.ID)
		return nil
	}
	if err := objects.CreateBucket(ctx, bucket.ID); err != nil {
		return fmt.Errorf("failed to create backend bucket %s: %w", bucket.ID, err)
	}
	logrus.Infof("Backend bucket %s created on %s storage", bucket.ID, cfg.Storage.Driver)
	return nil
}

func checkDatabase(ctx context.Context, cfg *config.Config) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	schemaName, tableName := cfg.Submission.DatabaseID, cfg.Submission.CollectionID
	logrus.Infof("Checking %s.%s", schemaName, tableName)

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`, schemaName, tableName)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}
	existing := map[string]bool{}
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			rows.Close()
			return err
		}
		existing[name] = true
		logrus.Infof("  %s %s nullable=%s", name, dataType, nullable)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(existing) == 0 {
		logrus.Warn("Campaign table does not exist, run setup-database without -check")
		return nil
	}

	indexRows, err := pool.Query(ctx, `
		SELECT indexname, indexdef FROM pg_indexes
		WHERE schemaname = $1 AND tablename = $2
		ORDER BY indexname
	`, schemaName, tableName)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer indexRows.Close()
	for indexRows.Next() {
		var name, def string
		if err := indexRows.Scan(&name, &def); err != nil {
			return err
		}
		logrus.Infof("  index %s: %s", name, def)
	}
	if err := indexRows.Err(); err != nil {
		return err
	}

	want, err := database.CampaignColumns()
	if err != nil {
		return err
	}
	var missing []string
	for _, column := range want {
		if !existing[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		logrus.Warnf("Missing columns: %s", strings.Join(missing, ", "))
		return nil
	}
	logrus.Info("All campaign columns are present")
	return nil
}
