// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sigstore/jar-audit/pkg/utils"
	"github.com/sigstore/jar-audit/pkg/verify"
)

// ValidateDirs checks that every entry of dirs is an accessible directory.
func ValidateDirs(dirs []string) error {
	for _, d := range dirs {
		if err := utils.ValidateFolderExists("directory", d); err != nil {
			return &verify.AuditError{
				Type:    verify.ErrTypeDirectoryNotFound,
				Path:    d,
				Message: fmt.Sprintf("Directory %s not found", d),
			}
		}
	}
	return nil
}

// ListArchives returns the files directly inside dir whose name ends in ext,
// in lexical order. Subdirectories and dot files are skipped.
func ListArchives(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, verify.NewErrorWithPath(verify.ErrTypeDirectoryNotFound, dir,
			fmt.Sprintf("Directory %s not readable", dir), err)
	}

	var archives []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		archives = append(archives, joinArg(dir, name))
	}
	sort.Strings(archives)
	return archives, nil
}

// joinArg appends name to dir as typed by the user. Unlike filepath.Join it
// does not clean dir, so "./lib" yields "./lib/a.jar".
func joinArg(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// Scan validates all of dirs and then lists their archives, keeping the
// order of dirs.
func Scan(dirs []string, ext string) ([]string, error) {
	if err := ValidateDirs(dirs); err != nil {
		return nil, err
	}
	var all []string
	for _, d := range dirs {
		archives, err := ListArchives(d, ext)
		if err != nil {
			return nil, err
		}
		all = append(all, archives...)
	}
	return all, nil
}
