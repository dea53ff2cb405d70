package data

import (
	"errors"
	"time"

	"golang.org/x/xerrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/service/config"
)

type sqliteService struct {
	CfgSvc config.IService
	db     *gorm.DB
}

func NewSqlite(cfgSvc config.IService) (IService, error) {
	db, err := gorm.Open(sqlite.Open(cfgSvc.GetDatabasePath()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, xerrors.Errorf("error opening sqlite database: %w", err)
	}

	return &sqliteService{
		CfgSvc: cfgSvc,
		db:     db,
	}, nil
}

func (svc *sqliteService) Migrate() error {
	return svc.db.AutoMigrate(
		&model.Organization{},
		&model.APIKey{},
		&model.GuestUsage{},
		&model.UsageLog{},
		&model.TryonSession{},
		&model.Shade{},
	)
}

// Default shade catalog, inserted once on an empty database.
var defaultShades = []model.Shade{
	{Category: "lipstick", Name: "Crimson Kiss", Hex: "#E91E63"},
	{Category: "lipstick", Name: "Ruby Red", Hex: "#C62828"},
	{Category: "lipstick", Name: "Coral Charm", Hex: "#FF7043"},
	{Category: "lipstick", Name: "Mauve Mood", Hex: "#AD6989"},
	{Category: "lipstick", Name: "Nude Silk", Hex: "#C48B76"},
	{Category: "lipstick", Name: "Plum Velvet", Hex: "#6A1B4D"},
	{Category: "eyeshadow", Name: "Smoky Slate", Hex: "#607D8B"},
	{Category: "eyeshadow", Name: "Golden Hour", Hex: "#C9A227"},
	{Category: "eyeshadow", Name: "Lilac Haze", Hex: "#9575CD"},
}

func (svc *sqliteService) SeedShades() error {
	var count int64
	if err := svc.db.Model(&model.Shade{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return svc.db.Create(&defaultShades).Error
}

func (svc *sqliteService) NewOrganization(org *model.Organization) error {
	return svc.db.Create(org).Error
}

func (svc *sqliteService) NewAPIKey(key *model.APIKey) error {
	return svc.db.Create(key).Error
}

func (svc *sqliteService) RetrieveOrganizationByAPIKey(key string) (model.Organization, model.APIKey, error) {
	var apiKey model.APIKey
	err := svc.db.Where("key = ? AND is_active = ?", key, true).First(&apiKey).Error
	if err != nil {
		return model.Organization{}, model.APIKey{}, xerrors.Errorf("invalid or inactive API key: %w", err)
	}

	var org model.Organization
	err = svc.db.First(&org, apiKey.OrganizationID).Error
	if err != nil {
		return model.Organization{}, model.APIKey{}, xerrors.Errorf("API key has invalid organization: %w", err)
	}

	return org, apiKey, nil
}

func (svc *sqliteService) RetrieveFirstOrganization() (model.Organization, error) {
	var org model.Organization
	err := svc.db.Order("id").First(&org).Error
	if err != nil {
		return model.Organization{}, xerrors.Errorf("no organizations found: %w", err)
	}
	return org, nil
}

func (svc *sqliteService) RetrieveShades(category string) ([]model.Shade, error) {
	var shades []model.Shade
	err := svc.db.Where("category = ?", category).Order("id").Find(&shades).Error
	return shades, err
}

func (svc *sqliteService) RetrieveGuestUsage(fingerprintHash, ipAddress, userAgentHash string, window time.Duration) (model.GuestUsage, error) {
	var usage model.GuestUsage

	err := svc.db.Where("fingerprint_hash = ?", fingerprintHash).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A changed user agent produces a new fingerprint; fall back to a
		// recent record for the same address before creating a fresh one.
		err = svc.db.Where("ip_address = ? AND last_visit > ?", ipAddress, time.Now().Add(-window)).
			First(&usage).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		usage = model.GuestUsage{
			FingerprintHash: fingerprintHash,
			IPAddress:       ipAddress,
			UserAgentHash:   userAgentHash,
			UsageCount:      0,
			LastVisit:       time.Now(),
		}
		return usage, svc.db.Create(&usage).Error
	}
	if err != nil {
		return model.GuestUsage{}, err
	}

	usage.FingerprintHash = fingerprintHash
	usage.UserAgentHash = userAgentHash
	usage.LastVisit = time.Now()
	return usage, svc.db.Save(&usage).Error
}

func (svc *sqliteService) IncrementGuestUsage(id uint) error {
	return svc.db.Model(&model.GuestUsage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"last_visit":  time.Now(),
		}).Error
}

func (svc *sqliteService) ResetGuestUsage(id uint) error {
	return svc.db.Model(&model.GuestUsage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count": 0,
			"last_visit":  time.Now(),
		}).Error
}

func (svc *sqliteService) ResetGuestUsageByIdentity(fingerprintHash, ipAddress string) error {
	q := svc.db.Model(&model.GuestUsage{})
	switch {
	case fingerprintHash != "" && ipAddress != "":
		q = q.Where("fingerprint_hash = ? OR ip_address = ?", fingerprintHash, ipAddress)
	case fingerprintHash != "":
		q = q.Where("fingerprint_hash = ?", fingerprintHash)
	case ipAddress != "":
		q = q.Where("ip_address = ?", ipAddress)
	default:
		return xerrors.New("fingerprint hash or IP address required")
	}

	return q.Updates(map[string]interface{}{
		"usage_count": 0,
		"last_visit":  time.Now(),
	}).Error
}

func (svc *sqliteService) NewUsageLog(log model.UsageLog) error {
	return svc.db.Create(&log).Error
}

func (svc *sqliteService) NewTryonSession(sess model.TryonSession) error {
	return svc.db.Create(&sess).Error
}

func (svc *sqliteService) Finalize() {
	sqlDB, err := svc.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}
