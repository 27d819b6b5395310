// Package integrity implements an offline check of sensor log files: every
// file's length must be a multiple of the record length, and every record
// must decode with an identifier matching the file name.
package integrity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sensorstore/sensorstore/store"
	dbio "github.com/sensorstore/sensorstore/utils/io"
	"github.com/sensorstore/sensorstore/utils/log"
)

const (
	usage   = "integrity"
	short   = "Evaluate integrity of sensor log files"
	long    = "This command evaluates the integrity of the sensor log files under a data directory"
	example = "sensorstore tool integrity --dir <path> --parallel"

	// Flag descriptions.
	rootDirPathDesc = "set filesystem path of the directory containing the log files to evaluate"
	parallelDesc    = "run evaluation in parallel, default is false"

	readChunkRecords = 4096
)

var (
	// Available flags.
	rootDirPath string
	parallel    bool

	// Cmd is the integrity command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"ic", "integritycheck"},
		Example: example,
		RunE:    executeIntegrity,
	}
)

func init() {
	// Parse flags.
	Cmd.Flags().StringVarP(&rootDirPath, "dir", "d", "", rootDirPathDesc)
	Cmd.MarkFlagRequired("dir")
	Cmd.Flags().BoolVar(&parallel, "parallel", false, parallelDesc)
}

// executeIntegrity implements the integrity tool.
func executeIntegrity(cmd *cobra.Command, _ []string) error {
	fi, err := os.Stat(rootDirPath)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("root directory %s is not a directory", rootDirPath)
	}
	cmd.SilenceUsage = true

	dirlist, err := os.ReadDir(rootDirPath)
	if err != nil {
		return err
	}
	var paths []string
	for _, entry := range dirlist {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), store.FileSuffix) {
			paths = append(paths, filepath.Join(rootDirPath, entry.Name()))
		}
	}
	sort.Strings(paths)
	log.Info("evaluating %d log files under %s", len(paths), rootDirPath)

	var g errgroup.Group
	if parallel {
		g.SetLimit(runtime.NumCPU())
	} else {
		g.SetLimit(1)
	}
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return checkFile(path)
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}
	log.Info("all log files check out")
	return nil
}

// checkFile verifies one log file front to back in bounded-size chunks.
func checkFile(path string) error {
	sensorID := strings.TrimSuffix(filepath.Base(path), store.FileSuffix)

	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	fi, err := fp.Stat()
	if err != nil {
		return err
	}
	size := fi.Size()
	if size%dbio.RecordLength != 0 {
		return fmt.Errorf("%s: size %d is not a multiple of the record length %d",
			path, size, dbio.RecordLength)
	}
	numRecords := size / dbio.RecordLength

	buf := make([]byte, readChunkRecords*dbio.RecordLength)
	var checked int64
	for checked < numRecords {
		n := len(buf)
		if remaining := int(numRecords-checked) * dbio.RecordLength; remaining < n {
			n = remaining
		}
		if _, err = io.ReadFull(fp, buf[:n]); err != nil {
			return fmt.Errorf("%s: read at record %d: %w", path, checked, err)
		}
		for off := 0; off < n; off += dbio.RecordLength {
			rec, err := dbio.DecodeRecord(buf[off : off+dbio.RecordLength])
			if err != nil {
				return fmt.Errorf("%s: record %d: %w", path, checked, err)
			}
			if rec.SensorID != sensorID {
				return fmt.Errorf("%s: record %d names sensor %q", path, checked, rec.SensorID)
			}
			checked++
		}
	}

	log.Info("%s: %d records, %s, ok", path, numRecords, bytefmt.ByteSize(uint64(size)))
	return nil
}
