package storage

import (
	"fmt"
	"os"

	"golang.org/x/xerrors"

	"github.com/optimosight/vto-go/service/config"
	"gocv.io/x/gocv"
)

type localService struct {
	CfgSvc config.IService
}

// NewLocal stores snapshots and composited results on the local disk under
// the configured snapshots folder.
func NewLocal(cfgSvc config.IService) IService {
	return &localService{
		CfgSvc: cfgSvc,
	}
}

func (svc *localService) StoreImage(name string, img gocv.Mat) (string, error) {
	folder := svc.CfgSvc.GetSnapshotsFolder()
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", xerrors.Errorf("error creating snapshots folder: %w", err)
	}

	path := fmt.Sprintf("%s/%s.jpg", folder, name)
	if ok := gocv.IMWrite(path, img); !ok {
		return "", xerrors.Errorf("error writing image to %s", path)
	}

	return path, nil
}
