package standardizeskills

type Input struct {
	Skills []string `json:"skills"`
}

type Output struct {
	StandardizedSkills []string `json:"standardizedSkills"`
	OriginalCount      int      `json:"originalCount"`
	StandardizedCount  int      `json:"standardizedCount"`
}
