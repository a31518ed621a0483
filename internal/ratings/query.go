package ratings

import "encoding/json"

// searchTeachersQuery is sent verbatim, upstream only answers documents
// shaped exactly like the ones its own web client sends.
const searchTeachersQuery = `query NewSearchTeachersQuery(
  $query: TeacherSearchQuery!
  $count: Int
) {
  newSearch {
    teachers(query: $query, first: $count) {
      didFallback
      edges {
        cursor
        node {
          id
          legacyId
          firstName
          lastName
          department
          departmentId
          school {
            legacyId
            name
            id
          }
          ...CompareProfessorsColumn_teacher
        }
      }
    }
  }
}

fragment CompareProfessorsColumn_teacher on Teacher {
  id
  legacyId
  firstName
  lastName
  school {
    legacyId
    name
    id
  }
  department
  departmentId
  avgRating
  numRatings
  wouldTakeAgainPercentRounded
  mandatoryAttendance {
    yes
    no
    neither
    total
  }
  takenForCredit {
    yes
    no
    neither
    total
  }
  ...NoRatingsArea_teacher
  ...RatingDistributionWrapper_teacher
}

fragment NoRatingsArea_teacher on Teacher {
  lastName
  ...RateTeacherLink_teacher
}

fragment RatingDistributionWrapper_teacher on Teacher {
  ...NoRatingsArea_teacher
  ratingsDistribution {
    total
    ...RatingDistributionChart_ratingsDistribution
  }
}

fragment RatingDistributionChart_ratingsDistribution on ratingsDistribution {
  r1
  r2
  r3
  r4
  r5
}

fragment RateTeacherLink_teacher on Teacher {
  legacyId
  numRatings
  lockStatus
}
`

type searchVariables struct {
	Query struct {
		Text     string `json:"text"`
		SchoolID string `json:"schoolID"`
	} `json:"query"`
	Count int `json:"count"`
}

type graphqlRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

type graphqlResponse[T any] struct {
	Data *T `json:"data"`
}

type teacherNode struct {
	LegacyID   json.Number `json:"legacyId"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Department string      `json:"department"`
	School     struct {
		Name string `json:"name"`
	} `json:"school"`
	AvgRating                    float64  `json:"avgRating"`
	NumRatings                   int      `json:"numRatings"`
	WouldTakeAgainPercentRounded *float64 `json:"wouldTakeAgainPercentRounded"`
}

type searchTeachersData struct {
	NewSearch *struct {
		Teachers *struct {
			Edges *[]struct {
				Node teacherNode `json:"node"`
			} `json:"edges"`
		} `json:"teachers"`
	} `json:"newSearch"`
}
