package store

import (
	"fmt"
	"os"
)

// cachedFP keeps a sensor log's append handle open across appends so the
// steady-state write path does not reopen the file per sample.
type cachedFP struct {
	fileName string
	fp       *os.File
}

func (cfp *cachedFP) getFP(fileName string) (*os.File, error) {
	if fileName == cfp.fileName {
		return cfp.fp, nil
	} else if len(cfp.fileName) != 0 {
		cfp.fp.Close()
	}
	var err error
	cfp.fp, err = os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		cfp.fileName = ""
		return nil, fmt.Errorf("open append filepath: %w", err)
	}
	cfp.fileName = fileName
	return cfp.fp, nil
}

func (cfp *cachedFP) close() error {
	if cfp.fp != nil {
		cfp.fileName = ""
		return cfp.fp.Close()
	}
	return nil
}
