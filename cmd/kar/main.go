// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// kar packs, lists and unpacks kar archives such as vkprobe captures.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/devblok/nativevk/utility/kar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"
)

func currentUserName() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}

var (
	author   = flag.String("author", currentUserName(), "Set the author of the package when compressing")
	version  = flag.Int64("version", 1, "Archive version number to create it with")
	extract  = flag.String("e", "", "Extract the file given, - extracts everything")
	compress = flag.String("c", "", "Compress the given file/folder")
	list     = flag.Bool("l", false, "List the archive contents")
	dstFile  = flag.String("f", "out.kar", "Archive file")
	outDir   = flag.String("d", ".", "Directory to extract into")
	silent   = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	ops := 0
	for _, set := range []bool{*extract != "", *compress != "", *list} {
		if set {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal("only one operation at a time")
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles()
	case *extract != "":
		err = extractFiles()
	case *list:
		err = listFiles()
	default:
		flag.PrintDefaults()
		return
	}
	if err != nil {
		log.WithError(err).Fatal("kar")
	}
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return errors.Wrapf(err, "walk %s", *compress)
	}

	builder := kar.NewBuilder(kar.Header{
		Author:      *author,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	for _, ftc := range filesToCompress {
		data, err := ioutil.ReadFile(ftc)
		if err != nil {
			return err
		}
		name, err := filepath.Rel(*compress, ftc)
		if err != nil || name == "." {
			name = filepath.Base(ftc)
		}
		if err := builder.Add(filepath.ToSlash(name), data); err != nil {
			return err
		}
		log.WithField("file", name).Info("added")
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()
	written, err := builder.WriteTo(dst)
	if err != nil {
		return errors.Wrapf(err, "write %s", *dstFile)
	}
	log.WithFields(log.Fields{"files": builder.Len(), "bytes": written}).Info("archive written")
	return dst.Close()
}

func openArchive() (*kar.Archive, io.Closer, error) {
	r, err := mmap.Open(*dstFile)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", *dstFile)
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, errors.Wrapf(err, "read %s", *dstFile)
	}
	return ar, r, nil
}

func listFiles() error {
	ar, closer, err := openArchive()
	if err != nil {
		return err
	}
	defer closer.Close()

	header := ar.Header()
	fmt.Printf("author %s, version %d, created %s\n", header.Author, header.Version,
		time.Unix(header.DateCreated, 0).Format(time.RFC3339))
	for _, entry := range header.Index {
		fmt.Printf("%10d %10d %s\n", entry.Size, entry.CompressedSize, entry.Name)
	}
	return nil
}

func extractFiles() error {
	ar, closer, err := openArchive()
	if err != nil {
		return err
	}
	defer closer.Close()

	names := []string{*extract}
	if *extract == "-" {
		names = ar.Names()
	}
	for _, name := range names {
		if err := extractFile(ar, name); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(ar *kar.Archive, name string) error {
	r, err := ar.Open(name)
	if err != nil {
		return errors.Wrapf(err, "open %s", name)
	}

	path := filepath.Join(*outDir, filepath.FromSlash(name))
	if rel, err := filepath.Rel(*outDir, path); err != nil || strings.HasPrefix(rel, "..") {
		return errors.Newf("%s leaves the output directory", name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return errors.Wrapf(err, "extract %s", name)
	}
	log.WithField("file", path).Info("extracted")
	return f.Close()
}
