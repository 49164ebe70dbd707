package layer

import "path/filepath"

// BuildSummary computes the aggregate quality metrics from a set
// of per-project classification results.
func BuildSummary(results []Result) Summary {
	summary := Summary{Results: results}
	if len(results) == 0 {
		summary.QualityAssessment = QualityUnreliable
		return summary
	}

	var confidenceTotal float64
	distinctDirs := map[string]bool{}

	for _, r := range results {
		confidenceTotal += r.Confidence
		switch r.Source {
		case SourceDirectory:
			summary.DirectoryDetected++
			distinctDirs[filepath.Dir(r.ProjectPath)] = true
		case SourceDefault:
			summary.DefaultFallback++
		}
	}

	summary.AverageConfidence = confidenceTotal / float64(len(results))
	summary.DistinctDetectedDirectories = len(distinctDirs)
	summary.HasValidLayerStructure = summary.DirectoryDetected >= len(results)/2 &&
		summary.DistinctDetectedDirectories >= 2
	summary.QualityAssessment = assessQuality(summary, len(results))

	return summary
}

// assessQuality derives the five-grade label from the relationship between
// directory-detected count, average confidence, and default-fallback count.
func assessQuality(summary Summary, total int) Quality {
	defaultRatio := float64(summary.DefaultFallback) / float64(total)
	directoryRatio := float64(summary.DirectoryDetected) / float64(total)

	switch {
	case directoryRatio >= 0.8 && summary.AverageConfidence >= 0.85 && defaultRatio == 0:
		return QualityExcellent
	case directoryRatio >= 0.6 && summary.AverageConfidence >= 0.70 && defaultRatio <= 0.1:
		return QualityGood
	case summary.AverageConfidence >= 0.55 && defaultRatio <= 0.30:
		return QualityFair
	case defaultRatio <= 0.60:
		return QualityPoor
	default:
		return QualityUnreliable
	}
}
