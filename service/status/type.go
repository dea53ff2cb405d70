package status

// Notice kinds surfaced by the frame loop and the widget API. Purely
// informational, human-readable strings; no structured schema.
const (
	KindLoading    = "loading"
	KindModelReady = "model ready"
	KindNoFace     = "no face detected"
	KindError      = "error"
)

type IService interface {
	Notify(kind string, message string)
}
