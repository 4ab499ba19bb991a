package catalog

// Subject is a top-level school subject with its books or branches.
type Subject struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Subcategories []SubCategory `json:"subcategories"`
}

type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// The subject table is reference data shipped with the binary.
var subjects = []Subject{
	{ID: "science", Name: "Science", Subcategories: []SubCategory{
		{ID: "physics", Name: "Physics"},
		{ID: "chemistry", Name: "Chemistry"},
		{ID: "biology", Name: "Biology"},
	}},
	{ID: "sst", Name: "SST", Subcategories: []SubCategory{
		{ID: "history", Name: "History"},
		{ID: "civics", Name: "Civics"},
		{ID: "geography", Name: "Geography"},
		{ID: "economics", Name: "Economics"},
	}},
	{ID: "maths", Name: "Maths", Subcategories: []SubCategory{
		{ID: "maths", Name: "Maths"},
	}},
	{ID: "english", Name: "English", Subcategories: []SubCategory{
		{ID: "moments", Name: "Moments"},
		{ID: "beehive", Name: "Beehive"},
		{ID: "grammar", Name: "Grammar"},
	}},
}

// Subjects returns a copy of the subject table in display order.
func Subjects() []Subject {
	out := make([]Subject, len(subjects))
	for i, s := range subjects {
		out[i] = s.clone()
	}
	return out
}

// FindSubject looks up a subject by id.
func FindSubject(id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s.clone(), true
		}
	}
	return Subject{}, false
}

// FindSubcategory resolves a subject/subcategory pair.
func FindSubcategory(subjectID, subcategoryID string) (Subject, SubCategory, bool) {
	subject, ok := FindSubject(subjectID)
	if !ok {
		return Subject{}, SubCategory{}, false
	}
	for _, sc := range subject.Subcategories {
		if sc.ID == subcategoryID {
			return subject, sc, true
		}
	}
	return subject, SubCategory{}, false
}

func (s Subject) clone() Subject {
	out := s
	out.Subcategories = append([]SubCategory(nil), s.Subcategories...)
	return out
}
