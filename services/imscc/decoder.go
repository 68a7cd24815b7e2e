// Package imscc is a thin adapter over IMSCC content packages: it opens
// the zip archive, reads imsmanifest.xml and yields the navigable manifest
// tree. It touches no course state.
package imscc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/manifest"
)

// ErrBadPackage is returned for unreadable archives and packages missing
// or carrying an unparsable imsmanifest.xml.
var ErrBadPackage = errors.New("unreadable or malformed IMSCC package")

const manifestEntry = "imsmanifest.xml"

type (
	xmlManifest struct {
		XMLName       xml.Name         `xml:"manifest"`
		Organizations xmlOrganizations `xml:"organizations"`
		Resources     xmlResources     `xml:"resources"`
	}

	xmlOrganizations struct {
		Organization *xmlOrganization `xml:"organization"`
	}

	xmlOrganization struct {
		Title string    `xml:"title"`
		Items []xmlItem `xml:"item"`
	}

	xmlItem struct {
		Title         string    `xml:"title"`
		IdentifierRef string    `xml:"identifierref,attr"`
		Items         []xmlItem `xml:"item"`
	}

	xmlResources struct {
		Resources []xmlResource `xml:"resource"`
	}

	xmlResource struct {
		Identifier string `xml:"identifier,attr"`
		Href       string `xml:"href,attr"`
	}
)

// Decode opens the package and decodes its manifest into the tree the
// flattener consumes.
func Decode(r io.ReaderAt, size int64) (manifest.Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return manifest.Manifest{}, errors.Wrap(ErrBadPackage, err.Error())
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == manifestEntry {
			entry = f
			break
		}
	}
	if entry == nil {
		return manifest.Manifest{}, errors.Wrap(ErrBadPackage, manifestEntry+" not found in package")
	}

	rc, err := entry.Open()
	if err != nil {
		return manifest.Manifest{}, errors.Wrap(ErrBadPackage, err.Error())
	}
	defer func() { _ = rc.Close() }()

	var doc xmlManifest
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return manifest.Manifest{}, errors.Wrap(ErrBadPackage, err.Error())
	}
	return convert(doc), nil
}

// DecodeBytes decodes an in-memory package.
func DecodeBytes(pkg []byte) (manifest.Manifest, error) {
	return Decode(bytes.NewReader(pkg), int64(len(pkg)))
}

// DecodeFile decodes a package on disk.
func DecodeFile(path string) (manifest.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return manifest.Manifest{}, err
	}
	defer func() { _ = f.Close() }()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return manifest.Manifest{}, err
	}
	return DecodeBytes(data)
}

func convert(doc xmlManifest) manifest.Manifest {
	m := manifest.Manifest{
		Resources: make([]manifest.Resource, 0, len(doc.Resources.Resources)),
	}
	if doc.Organizations.Organization != nil {
		m.Organization = &manifest.Organization{
			Title: doc.Organizations.Organization.Title,
			Items: convertItems(doc.Organizations.Organization.Items),
		}
	}
	for _, res := range doc.Resources.Resources {
		m.Resources = append(m.Resources, manifest.Resource{Identifier: res.Identifier, Href: res.Href})
	}
	return m
}

// convertItems normalizes children into an always-present (possibly empty)
// ordered slice and reference attributes into explicit optionals.
func convertItems(items []xmlItem) []manifest.Item {
	out := make([]manifest.Item, 0, len(items))
	for _, it := range items {
		item := manifest.Item{
			Title: it.Title,
			Items: convertItems(it.Items),
		}
		if it.IdentifierRef != "" {
			ref := it.IdentifierRef
			item.IdentifierRef = &ref
		}
		out = append(out, item)
	}
	return out
}
