package handlers

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/optimosight/vto-go/compositor"
	"github.com/optimosight/vto-go/model"
	"github.com/optimosight/vto-go/palette"
	"github.com/optimosight/vto-go/pipeline"
	"github.com/optimosight/vto-go/region"
	"github.com/optimosight/vto-go/service/lgr"
	"gocv.io/x/gocv"
)

// categoryRegions maps a cosmetic category to the regions it paints.
var categoryRegions = map[string][]string{
	"lipstick":  {"lips"},
	"eyeshadow": {"left_eye", "right_eye"},
}

type applyRequest struct {
	Category string `form:"category" binding:"required"`
	Color    string `form:"color" binding:"required"`
}

// Apply runs the try-on over an uploaded photo: decode, bound, detect
// landmarks, composite the category's regions with the requested color and
// return the result as a JPEG.
func Apply(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := authInfo(c)
		// Guests are billed per try-on request, up front, regardless of how
		// the processing turns out.
		incrementGuestUsage(svcs, info)

		var req applyRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		regionNames, ok := categoryRegions[req.Category]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid category: %s", req.Category)})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "error opening uploaded image"})
			return
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported or corrupt image"})
			return
		}

		// Bound the photo before detection; landmark quality does not
		// improve past the model's input size and huge uploads are slow.
		maxDim := uint(svcs.CfgSvc.GetMaxUploadDimension())
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)

		frame, err := gocv.ImageToMatRGB(img)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error converting image"})
			return
		}
		defer frame.Close()

		sessionID := uuid.NewString()
		faceDetected := false
		defer func() {
			recordSession(svcs, info, sessionID, req, faceDetected)
		}()

		rgb, hasColor := palette.ParseHex(req.Color)
		if !hasColor {
			// Malformed color means "no color": hand back the photo as-is.
			respondJPEG(c, frame, sessionID, "no color applied")
			return
		}

		detectCtx, canxFn := context.WithTimeout(c.Request.Context(),
			time.Duration(svcs.CfgSvc.GetDetectionTimeout())*time.Millisecond)
		faces, err := svcs.LandmarkSvc.Detect(detectCtx, frame)
		canxFn()
		if err != nil {
			lgr.Logger.Error(
				"detection failed for uploaded photo",
				slog.String("session", sessionID),
				slog.Any("error", err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "landmark detection failed"})
			return
		}
		if len(faces) == 0 {
			c.JSON(http.StatusOK, gin.H{"status": "no face detected", "sessionId": sessionID})
			return
		}
		faceDetected = true

		for _, name := range regionNames {
			reg, err := region.Lookup(name)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := compositor.Composite(&faces[0], &rgb, reg, &frame); err != nil {
				lgr.Logger.Error(
					"compositing failed for uploaded photo",
					slog.String("session", sessionID),
					slog.String("region", name),
					slog.Any("error", err),
				)
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "face keypoints incomplete"})
				return
			}
		}

		if svcs.StorageSvc != nil {
			if _, err := svcs.StorageSvc.StoreImage(fmt.Sprintf("apply_%s", sessionID), frame); err != nil {
				lgr.Logger.Warn(
					"error archiving composited result",
					slog.Any("error", err),
				)
			}
		}

		respondJPEG(c, frame, sessionID, "")
	}
}

func respondJPEG(c *gin.Context, frame gocv.Mat, sessionID, note string) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error encoding result"})
		return
	}
	defer buf.Close()

	c.Header("X-Session-Id", sessionID)
	if note != "" {
		c.Header("X-Status", note)
	}
	c.Data(http.StatusOK, "image/jpeg", buf.GetBytes())
}

func recordSession(svcs pipeline.ServicesFactory, info AuthInfo, sessionID string, req applyRequest, faceDetected bool) {
	if svcs.DataSvc == nil {
		return
	}

	err := svcs.DataSvc.NewTryonSession(model.TryonSession{
		SessionID:      sessionID,
		OrganizationID: info.OrganizationID,
		Category:       req.Category,
		Color:          req.Color,
		FaceDetected:   faceDetected,
	})
	if err != nil {
		lgr.Logger.Error(
			"error recording try-on session",
			slog.Any("error", err),
		)
	}

	err = svcs.DataSvc.NewUsageLog(model.UsageLog{
		OrganizationID: info.OrganizationID,
		Endpoint:       "apply",
		Category:       req.Category,
		Color:          req.Color,
	})
	if err != nil {
		lgr.Logger.Error(
			"error recording usage log",
			slog.Any("error", err),
		)
	}
}
