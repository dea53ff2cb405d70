package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	"github.com/optimosight/vto-go/service/config"
	"github.com/optimosight/vto-go/service/lgr"
)

type httpService struct {
	CfgSvc config.IService
	client *http.Client
}

// NewHTTP forwards analytics payloads to the configured webhook URL. With
// no URL configured every post is a logged no-op.
func NewHTTP(cfgSvc config.IService) IService {
	return &httpService{
		CfgSvc: cfgSvc,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (svc *httpService) Post(payload map[string]interface{}) error {
	url := svc.CfgSvc.GetAnalyticsWebhookURL()
	if url == "" {
		lgr.Logger.Debug("no analytics webhook configured, dropping payload")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return xerrors.Errorf("error marshaling webhook payload: %w", err)
	}

	resp, err := svc.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return xerrors.Errorf("error posting to analytics webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return xerrors.Errorf("analytics webhook returned %d", resp.StatusCode)
	}

	return nil
}
