package solution

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSolution = `
Microsoft Visual Studio Solution File, Format Version 12.00
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Billing", "src\Billing\Billing.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{22222222-2222-2222-2222-222222222222}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Billing.Tests", "test\Billing.Tests\Billing.Tests.csproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
`

func writeSolution(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Sample.sln")
	if err := os.WriteFile(path, []byte(sampleSolution), 0o644); err != nil {
		t.Fatalf("writing sample solution: %v", err)
	}
	return path
}

func TestParseSolutionFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSolution(t, dir)

	projects, err := ParseSolutionFile(path)
	if err != nil {
		t.Fatalf("ParseSolutionFile returned error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2 (solution folder excluded): %+v", len(projects), projects)
	}
	if projects[0].Name != "Billing" {
		t.Errorf("projects[0].Name = %q, want Billing", projects[0].Name)
	}
	wantPath := filepath.Join(dir, "src", "Billing", "Billing.csproj")
	if projects[0].Path != wantPath {
		t.Errorf("projects[0].Path = %q, want %q", projects[0].Path, wantPath)
	}
	if projects[1].Name != "Billing.Tests" {
		t.Errorf("projects[1].Name = %q, want Billing.Tests", projects[1].Name)
	}
}

const sampleCsproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
    <AssemblyName>Billing.Core</AssemblyName>
  </PropertyGroup>
  <ItemGroup>
    <ProjectReference Include="..\Shared\Shared.csproj" />
    <PackageReference Include="Newtonsoft.Json" Version="13.0.3" />
  </ItemGroup>
</Project>
`

func TestReadProjectMetadata(t *testing.T) {
	dir := t.TempDir()
	projDir := filepath.Join(dir, "Billing")
	if err := os.MkdirAll(projDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	projPath := filepath.Join(projDir, "Billing.csproj")
	if err := os.WriteFile(projPath, []byte(sampleCsproj), 0o644); err != nil {
		t.Fatalf("writing csproj: %v", err)
	}

	project := Project{Name: "Billing", Path: projPath, Dir: projDir}
	meta, err := ReadProjectMetadata(project)
	if err != nil {
		t.Fatalf("ReadProjectMetadata returned error: %v", err)
	}
	if meta.AssemblyName != "Billing.Core" {
		t.Errorf("AssemblyName = %q, want Billing.Core", meta.AssemblyName)
	}
	if meta.TargetFramework != "net8.0" {
		t.Errorf("TargetFramework = %q, want net8.0", meta.TargetFramework)
	}
	if len(meta.ProjectReferences) != 1 {
		t.Fatalf("ProjectReferences = %+v, want 1 entry", meta.ProjectReferences)
	}
	wantRef := filepath.Join(dir, "Shared", "Shared.csproj")
	if meta.ProjectReferences[0] != wantRef {
		t.Errorf("ProjectReferences[0] = %q, want %q", meta.ProjectReferences[0], wantRef)
	}
	if len(meta.PackageReferences) != 1 || meta.PackageReferences[0] != "Newtonsoft.Json@13.0.3" {
		t.Errorf("PackageReferences = %+v, want [Newtonsoft.Json@13.0.3]", meta.PackageReferences)
	}
}

func TestSourceFilesExcludesBinObjAndGenerated(t *testing.T) {
	dir := t.TempDir()
	projDir := filepath.Join(dir, "Billing")
	mustMkdirAll(t, filepath.Join(projDir, "bin"))
	mustMkdirAll(t, filepath.Join(projDir, "obj"))
	mustWriteFile(t, filepath.Join(projDir, "Order.cs"), "class Order {}")
	mustWriteFile(t, filepath.Join(projDir, "Order.g.cs"), "// generated")
	mustWriteFile(t, filepath.Join(projDir, "Order.Designer.cs"), "// designer")
	mustWriteFile(t, filepath.Join(projDir, "bin", "Ignored.cs"), "class Ignored {}")
	mustWriteFile(t, filepath.Join(projDir, "obj", "Ignored.cs"), "class Ignored {}")

	files, err := SourceFiles(Project{Name: "Billing", Dir: projDir})
	if err != nil {
		t.Fatalf("SourceFiles returned error: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "Order.cs" {
		t.Errorf("SourceFiles = %+v, want only Order.cs", files)
	}
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
