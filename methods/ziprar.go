package methods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"
)

// Unzip 解压 zip/rar 到同名目录，返回解压目录
func Unzip(src string) (string, error) {
	ext := filepath.Ext(src)
	switch strings.ToLower(ext) {
	case ".zip", ".rar":
	default:
		return "", errors.New("unsupported archive format")
	}
	unpath := strings.TrimSuffix(src, ext)
	if err := os.MkdirAll(unpath, os.ModePerm); err != nil {
		return "", err
	}
	if err := archiver.Unarchive(src, unpath); err != nil {
		return "", fmt.Errorf("unarchive %s: %w", src, err)
	}
	return unpath, nil
}

// ZipFiles 打包文件，zipPath 必须以 .zip 结尾
func ZipFiles(files []string, zipPath string) error {
	z := archiver.NewZip()
	z.OverwriteExisting = true
	if err := z.Archive(files, zipPath); err != nil {
		return fmt.Errorf("zip %s: %w", zipPath, err)
	}
	return nil
}

// ZipFilesOut 打包文件并返回 zip 字节
func ZipFilesOut(files []string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "trackart-zip-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	zipPath := filepath.Join(dir, "bundle.zip")
	if err := ZipFiles(files, zipPath); err != nil {
		return nil, err
	}
	return os.ReadFile(zipPath)
}
