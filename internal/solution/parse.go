package solution

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// slnProjectLine matches a Visual Studio solution-file project entry:
//
//	Project("{guid}") = "Name", "relative\path\Name.csproj", "{guid}"
var slnProjectLine = regexp.MustCompile(`^Project\("\{[0-9A-Fa-f-]+\}"\)\s*=\s*"([^"]+)"\s*,\s*"([^"]+)"`)

// ParseSolutionFile reads a .sln file and returns its project entries,
// excluding solution folders (which have no .csproj path).
func ParseSolutionFile(path string) ([]Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening solution file: %w", err)
	}
	defer f.Close()

	root := filepath.Dir(path)
	var projects []Project

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := slnProjectLine.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		name, relPath := match[1], match[2]
		if !strings.HasSuffix(strings.ToLower(relPath), ".csproj") {
			continue // solution folder or non-C# project
		}
		absPath := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(relPath, `\`, "/")))
		projects = append(projects, Project{
			Name: name,
			Path: absPath,
			Dir:  filepath.Dir(absPath),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading solution file: %w", err)
	}
	return projects, nil
}

// csprojXML is the subset of a .csproj's structure this package reads.
type csprojXML struct {
	XMLName       xml.Name `xml:"Project"`
	PropertyGroup []struct {
		AssemblyName     string `xml:"AssemblyName"`
		TargetFramework  string `xml:"TargetFramework"`
		TargetFrameworks string `xml:"TargetFrameworks"`
	} `xml:"PropertyGroup"`
	ItemGroup []struct {
		ProjectReference []struct {
			Include string `xml:"Include,attr"`
		} `xml:"ProjectReference"`
		PackageReference []struct {
			Include string `xml:"Include,attr"`
			Version string `xml:"Version,attr"`
		} `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

// ProjectMetadata is what ReadProjectMetadata extracts from a .csproj.
type ProjectMetadata struct {
	AssemblyName      string
	TargetFramework   string
	ProjectReferences []string // absolute paths
	PackageReferences []string // "Name@Version"
}

// ReadProjectMetadata parses a .csproj for its assembly name, target
// framework, and reference lists.
func ReadProjectMetadata(project Project) (ProjectMetadata, error) {
	data, err := os.ReadFile(project.Path)
	if err != nil {
		return ProjectMetadata{}, fmt.Errorf("reading project file: %w", err)
	}

	var parsed csprojXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return ProjectMetadata{}, fmt.Errorf("parsing project file: %w", err)
	}

	meta := ProjectMetadata{}
	for _, pg := range parsed.PropertyGroup {
		if meta.AssemblyName == "" && pg.AssemblyName != "" {
			meta.AssemblyName = pg.AssemblyName
		}
		if meta.TargetFramework == "" {
			if pg.TargetFramework != "" {
				meta.TargetFramework = pg.TargetFramework
			} else if pg.TargetFrameworks != "" {
				meta.TargetFramework = strings.SplitN(pg.TargetFrameworks, ";", 2)[0]
			}
		}
	}
	if meta.AssemblyName == "" {
		meta.AssemblyName = strings.TrimSuffix(filepath.Base(project.Path), ".csproj")
	}

	for _, ig := range parsed.ItemGroup {
		for _, ref := range ig.ProjectReference {
			if ref.Include == "" {
				continue
			}
			abs := filepath.Join(project.Dir, filepath.FromSlash(strings.ReplaceAll(ref.Include, `\`, "/")))
			meta.ProjectReferences = append(meta.ProjectReferences, abs)
		}
		for _, pkg := range ig.PackageReference {
			if pkg.Include == "" {
				continue
			}
			meta.PackageReferences = append(meta.PackageReferences, pkg.Include+"@"+pkg.Version)
		}
	}

	return meta, nil
}

// SourceFiles walks a project directory and returns every *.cs file,
// excluding bin/ and obj/ build output and generated/designer files.
func SourceFiles(project Project) ([]string, error) {
	var files []string
	err := filepath.Walk(project.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			switch info.Name() {
			case "bin", "obj":
				return filepath.SkipDir
			}
			if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".cs") {
			return nil
		}
		if strings.HasSuffix(path, ".g.cs") || strings.HasSuffix(path, ".Designer.cs") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking project directory: %w", err)
	}
	return files, nil
}
