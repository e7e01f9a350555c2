// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package profile

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/utility/kar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"
	"gopkg.in/yaml.v3"
)

// ArchiveVersion is the version written into capture archives
const ArchiveVersion = 1

func entryName(i int) string {
	return fmt.Sprintf("device-%02d.yaml", i)
}

// ArchiveAuthor names the machine a capture is taken on, "unknown"
// when hostname fails.
func ArchiveAuthor(hostname func() (string, error), logger *log.Entry) string {
	host, err := hostname()
	if err != nil || host == "" {
		logger.WithError(err).Debug("hostname unavailable")
		return "unknown"
	}
	return host
}

// WriteArchive stores profiles, in order, as a kar archive.
func WriteArchive(w io.Writer, author string, profiles []DeviceProfile) (int64, error) {
	builder := kar.NewBuilder(kar.Header{
		Author:      author,
		DateCreated: time.Now().Unix(),
		Version:     ArchiveVersion,
	})
	for i, p := range profiles {
		raw, err := yaml.Marshal(p)
		if err != nil {
			return 0, errors.Wrapf(err, "encode profile %d", i)
		}
		if err := builder.Add(entryName(i), raw); err != nil {
			return 0, err
		}
	}
	return builder.WriteTo(w)
}

// ReadArchive loads the profiles of a kar archive in the order they were written.
func ReadArchive(r io.ReaderAt) ([]DeviceProfile, error) {
	ar, err := kar.Open(r)
	if err != nil {
		return nil, errors.Wrap(err, "open capture archive")
	}
	if v := ar.Header().Version; v != ArchiveVersion {
		return nil, errors.Newf("unsupported capture archive version %d", v)
	}

	names := ar.Names()
	profiles := make([]DeviceProfile, 0, len(names))
	for _, name := range names {
		raw, err := ar.ReadAll(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		var p DeviceProfile
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ReadArchiveFile memory maps the archive at path and loads its profiles.
func ReadArchiveFile(path string) ([]DeviceProfile, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer r.Close()
	return ReadArchive(r)
}
