package config

import (
	"os"
	"strconv"
)

type envVarsService struct {
}

// NewEnvVars returns a config service backed by environment variables with
// sensible defaults for local development.
func NewEnvVars() IService {
	return &envVarsService{}
}

func (svc *envVarsService) GetRunTimeEnv() string {
	return envString("RUN_TIME_ENV", "dev")
}

func (svc *envVarsService) GetModeMaxShutdownTime() int {
	return envInt("MODE_MAX_SHUTDOWN_TIME", 5)
}

func (svc *envVarsService) GetAPIPort() int {
	return envInt("API_PORT", 8080)
}

func (svc *envVarsService) GetDatabasePath() string {
	return envString("DATABASE_PATH", "./vto.db")
}

func (svc *envVarsService) GetSnapshotsFolder() string {
	return envString("SNAPSHOTS_FOLDER", "./snapshots")
}

func (svc *envVarsService) GetFramerType() string {
	// webcam | synthetic
	return envString("FRAMER_TYPE", "webcam")
}

func (svc *envVarsService) GetCameraDeviceID() int {
	return envInt("CAMERA_DEVICE_ID", 0)
}

func (svc *envVarsService) GetCameraURL() string {
	// When set, takes precedence over the device ID.
	return envString("CAMERA_URL", "")
}

func (svc *envVarsService) GetDisplayFPS() int {
	return envInt("DISPLAY_FPS", 30)
}

func (svc *envVarsService) GetDetectionTimeout() int {
	// Milliseconds. Bounds the per-tick landmark call so a stalled
	// detection cannot indefinitely delay the next tick.
	return envInt("DETECTION_TIMEOUT_MS", 250)
}

func (svc *envVarsService) GetWidgetRegion() string {
	return envString("WIDGET_REGION", "lips")
}

func (svc *envVarsService) GetFaceMeshModelPath() string {
	return envString("FACE_MESH_MODEL_PATH", "./models/face_mesh.onnx")
}

func (svc *envVarsService) GetFaceMeshScoreThreshold() float32 {
	return envFloat32("FACE_MESH_SCORE_THRESHOLD", 0.5)
}

func (svc *envVarsService) GetMaxUploadDimension() int {
	return envInt("MAX_UPLOAD_DIMENSION", 1280)
}

func (svc *envVarsService) GetGuestAPIKey() string {
	return envString("GUEST_API_KEY", "OptimosightGuest999")
}

func (svc *envVarsService) GetSuperAdminAPIKey() string {
	return envString("SUPER_ADMIN_API_KEY", "")
}

func (svc *envVarsService) GetGuestUsageLimit() int {
	return envInt("GUEST_USAGE_LIMIT", 2000)
}

func (svc *envVarsService) GetGuestResetPeriodHours() int {
	return envInt("GUEST_RESET_PERIOD_HOURS", 24)
}

func (svc *envVarsService) GetAnalyticsWebhookURL() string {
	return envString("ANALYTICS_WEBHOOK_URL", "")
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat32(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}
