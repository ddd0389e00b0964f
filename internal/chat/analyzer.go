package chat

import "context"

const mockAnalysisText = "Analysis complete: No obvious disease. Soil dryness moderate."

// mockAnalyzer is the built-in image backend. It always reports a healthy
// field, standing in for a real vision model.
type mockAnalyzer struct{}

func (mockAnalyzer) Analyze(_ context.Context, _ string) (string, error) {
	return mockAnalysisText, nil
}
