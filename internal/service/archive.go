package service

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"doccore/internal/vault"
	"doccore/pkg/model"
)

// archiveTimeLayout names archives so they sort chronologically per project.
const archiveTimeLayout = "20060102T150405Z"

// ArchiveProject tars and gzips the project directory and stores it in the
// vault under `<project-id>/<timestamp>.tar.gz`. The project should be
// saved first; the archive captures whatever is on disk.
func (s *Service) ArchiveProject(ctx context.Context, p *model.Project) (vault.Info, error) {
	var info vault.Info
	err := s.instrument(ctx, "archive_project", func(ctx context.Context) error {
		if s.vault == nil {
			return fmt.Errorf("service: no vault configured")
		}
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writeTarGz(pw, p.Dir()))
		}()
		key := fmt.Sprintf("%s/%s.tar.gz", p.ID(), s.now().UTC().Format(archiveTimeLayout))
		var err error
		info, err = s.vault.Put(ctx, key, pr, vault.PutOptions{
			ContentType: "application/gzip",
			Metadata:    map[string]string{"project": string(p.ID()), "name": p.Name()},
		})
		if err != nil {
			_ = pr.CloseWithError(err)
			return err
		}
		return nil
	})
	return info, err
}

// writeTarGz streams dir as a gzip-compressed tar with paths relative to
// dir. Regular files and directories only.
func writeTarGz(w io.Writer, dir string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	err := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if !fi.Mode().IsRegular() && !fi.IsDir() {
			return nil
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if fi.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		_ = tw.Close()
		_ = gz.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}
