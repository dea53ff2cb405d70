package storage

import "gocv.io/x/gocv"

type IService interface {
	// StoreImage persists a frame as a JPEG and returns its location.
	StoreImage(name string, img gocv.Mat) (string, error)
}
