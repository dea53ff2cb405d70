package data

import (
	"time"

	"github.com/optimosight/vto-go/model"
)

type IService interface {
	Migrate() error
	SeedShades() error

	NewOrganization(org *model.Organization) error
	NewAPIKey(key *model.APIKey) error

	RetrieveOrganizationByAPIKey(key string) (model.Organization, model.APIKey, error)
	RetrieveFirstOrganization() (model.Organization, error)
	RetrieveShades(category string) ([]model.Shade, error)

	// RetrieveGuestUsage finds a guest record by fingerprint, falling back
	// to a recent record for the same IP, creating one when neither exists.
	RetrieveGuestUsage(fingerprintHash, ipAddress, userAgentHash string, window time.Duration) (model.GuestUsage, error)
	IncrementGuestUsage(id uint) error
	ResetGuestUsage(id uint) error
	// ResetGuestUsageByIdentity zeroes the quota of every guest record
	// matching the fingerprint or the IP address. Admin surface.
	ResetGuestUsageByIdentity(fingerprintHash, ipAddress string) error

	NewUsageLog(log model.UsageLog) error
	NewTryonSession(sess model.TryonSession) error

	Finalize()
}
