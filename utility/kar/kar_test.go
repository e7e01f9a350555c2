// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"io/ioutil"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devblok/nativevk/utility/kar"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(t *testing.T) []byte {
	builder := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err := builder.Add("test", []byte(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test2", []byte(testString2)); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	written, err := builder.WriteTo(buf)
	if err != nil {
		t.Fatal(err)
	}
	if written != int64(buf.Len()) {
		t.Errorf("reported %d bytes written, buffer holds %d", written, buf.Len())
	}
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.Open("test2")
	if err != nil {
		t.Fatal(err)
	}

	result, err := ioutil.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Compare(string(result), testString2) != 0 {
		t.Error("test string does not match up")
	}
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}

	f, err := ar.ReadAll("test")
	if err != nil {
		t.Fatal(err)
	}

	if strings.Compare(string(f), testString1) != 0 {
		t.Error("test string does not match up")
	}

	if names := ar.Names(); len(names) != 2 || names[0] != "test" || names[1] != "test2" {
		t.Errorf("unexpected index %v", names)
	}
	if ar.Header().Author != "devblok" {
		t.Error("header author lost")
	}
}

func TestReadMissing(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.ReadAll("nope"); !errors.Is(err, kar.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenNotKar(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("KA"),
		[]byte("TAR\x00\x01\x00\x00\x00\x00\x00\x00\x00"),
		[]byte("KAR\x00\xff\x00\x00\x00\x00\x00\x00\x00"),
		[]byte("KAR\x00\x00\x00\x00\x00\x00\x00\x00\x40"),
		[]byte("KAR\x00\xff\xff\xff\xff\xff\xff\xff\x7f"),
		[]byte("KAR\x00\x00\x00\x00\x00\x01\x00\x00\x00"),
		[]byte("KAR\x00\x00\x00\x00\x01\x00\x00\x00\x00"),
	} {
		if _, err := kar.Open(bytes.NewReader(data)); !errors.Is(err, kar.ErrFileFormat) {
			t.Errorf("%q: expected ErrFileFormat, got %v", data, err)
		}
	}
}

func TestOpenNegativeEntry(t *testing.T) {
	var header bytes.Buffer
	err := gob.NewEncoder(&header).Encode(kar.Header{
		Index: []kar.IndexEntry{{Name: "bad", Offset: -8, Size: 4, CompressedSize: 4}},
	})
	if err != nil {
		t.Fatal(err)
	}

	data := append([]byte("KAR\x00"), make([]byte, kar.HeaderSizeNumberLength)...)
	binary.LittleEndian.PutUint64(data[kar.MagicLength:], uint64(header.Len()))
	data = append(data, header.Bytes()...)

	ar, err := kar.Open(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ar.Open("bad"); !errors.Is(err, kar.ErrFileFormat) {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	builder := kar.NewBuilder(kar.Header{})
	if err := builder.Add("test", []byte(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test", []byte(testString2)); !errors.Is(err, kar.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddConcurrently(t *testing.T) {
	builder := kar.NewBuilder(kar.Header{})
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := builder.Add(name, []byte(strings.Repeat(name, 100))); err != nil {
				t.Error(err)
			}
		}(name)
	}
	wg.Wait()

	if builder.Len() != len(names) {
		t.Errorf("incorrect number of files present: %d", builder.Len())
	}
}
