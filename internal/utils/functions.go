package utils

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var filenameSanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_\-\. ]+`)

func GetRandomUserAgent() string {
	return userAgents[time.Now().UnixNano()%int64(len(userAgents))]
}

// SanitizeFilename strips characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	sanitized := filenameSanitizeRegex.ReplaceAllString(name, "_")
	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		return ""
	}
	return sanitized
}

// FilenameFromURL derives an output name from the last URL path element.
func FilenameFromURL(link string) string {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return "download"
	}
	parts := strings.Split(parsedURL.Path, "/")
	name := parts[len(parts)-1]
	if name == "" {
		return "download"
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if sanitized := SanitizeFilename(name); sanitized != "" {
		return sanitized
	}
	return "download"
}

// RenewOutputPath returns a non-colliding variant of outputPath like name-(1).ext.
func RenewOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	index := 1
	for {
		outputPath = filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return outputPath
		}
		index++
	}
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed == 0 {
		return "0 B/s"
	}
	bps := float64(bytes) / elapsed
	formatted := FormatBytes(uint64(bps))
	return formatted[:len(formatted)-1] + "B/s" // Slice off "B" and add "B/s"
}

func FormatETA(remaining int64, speed float64) string {
	if speed <= 0 || remaining < 0 {
		return "calculating..."
	}
	etaSeconds := int64(float64(remaining) / speed)
	if etaSeconds < 60 {
		return fmt.Sprintf("%ds", etaSeconds)
	} else if etaSeconds < 3600 {
		return fmt.Sprintf("%dm %ds", etaSeconds/60, etaSeconds%60)
	}
	return fmt.Sprintf("%dh %dm", etaSeconds/3600, (etaSeconds%3600)/60)
}

// TempDirFor returns the temp directory used for in-flight downloads of outputPath.
func TempDirFor(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), TempDirName)
}

// CleanFunction removes leftover temp artifacts for the given output path and
// deletes the temp directory once it is empty.
func CleanFunction(outputPath string) error {
	tempDir := TempDirFor(outputPath)
	files, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	partPrefix := filepath.Base(outputPath) + ".part"
	for _, file := range files {
		filePath := filepath.Join(tempDir, file.Name())
		if strings.HasPrefix(file.Name(), partPrefix) {
			if err := os.Remove(filePath); err != nil {
				return err
			}
		}
	}
	remainingFiles, err := os.ReadDir(tempDir)
	if err != nil {
		return err
	}
	if len(remainingFiles) == 0 {
		if err := os.Remove(tempDir); err != nil {
			return err
		}
	}
	return nil
}

// CleanLocal removes the temp directory in the current working directory.
func CleanLocal() error {
	tempDir := filepath.Join(".", TempDirName)
	_, err := os.Stat(tempDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.RemoveAll(tempDir)
}
