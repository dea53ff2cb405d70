package config

type IService interface {
	GetRunTimeEnv() string
	GetModeMaxShutdownTime() int
	GetAPIPort() int
	GetDatabasePath() string
	GetSnapshotsFolder() string

	GetFramerType() string
	GetCameraDeviceID() int
	GetCameraURL() string
	GetDisplayFPS() int
	GetDetectionTimeout() int
	GetWidgetRegion() string

	GetFaceMeshModelPath() string
	GetFaceMeshScoreThreshold() float32

	GetMaxUploadDimension() int
	GetGuestAPIKey() string
	GetSuperAdminAPIKey() string
	GetGuestUsageLimit() int
	GetGuestResetPeriodHours() int
	GetAnalyticsWebhookURL() string
}
