package main

import (
	"github.com/anoideaopen/storagepay/core"
	"github.com/anoideaopen/storagepay/core/logger"
)

func main() {
	l := logger.Logger()
	l.Warning("start storagepay")

	if err := core.NewCC().Start(); err != nil {
		l.WithError(err).Fatal("chaincode stopped")
	}
}
