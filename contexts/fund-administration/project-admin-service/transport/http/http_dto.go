package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DocumentPayload struct {
	Title string `json:"title"`
	CID   string `json:"cid"`
}

type InitialSetupResponse struct {
	Status string `json:"status"`
	Data   struct {
		ScopeID string `json:"scope_id"`
	} `json:"data"`
}

type AdministratorRequest struct {
	Account string `json:"account"`
}

type AdministratorResponse struct {
	Status string `json:"status"`
	Data   struct {
		Account string `json:"account"`
	} `json:"data"`
}

type ListAdministratorsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Administrators []string `json:"administrators"`
	} `json:"data"`
}

type RegisterUserRequest struct {
	Account   string            `json:"account"`
	Name      string            `json:"name"`
	ImageCID  string            `json:"image_cid,omitempty"`
	Email     string            `json:"email,omitempty"`
	Documents []DocumentPayload `json:"documents,omitempty"`
}

type UpdateUserRequest struct {
	Name      *string            `json:"name,omitempty"`
	ImageCID  *string            `json:"image_cid,omitempty"`
	Email     *string            `json:"email,omitempty"`
	Documents *[]DocumentPayload `json:"documents,omitempty"`
}

type UserResponse struct {
	Status string `json:"status"`
	Data   struct {
		Account    string            `json:"account"`
		Name       string            `json:"name"`
		ImageCID   string            `json:"image_cid,omitempty"`
		Email      string            `json:"email,omitempty"`
		Documents  []DocumentPayload `json:"documents,omitempty"`
		CreatedAt  string            `json:"created_at"`
		ModifiedAt string            `json:"modified_at"`
	} `json:"data"`
}

type DeleteUserResponse struct {
	Status string `json:"status"`
	Data   struct {
		Account string `json:"account"`
	} `json:"data"`
}

type CreateProjectRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ImageCID       string `json:"image_cid,omitempty"`
	Address        string `json:"address,omitempty"`
	CompletionDate string `json:"completion_date"`
}

type UpdateProjectRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	ImageCID       *string `json:"image_cid,omitempty"`
	Address        *string `json:"address,omitempty"`
	CreationDate   *string `json:"creation_date,omitempty"`
	CompletionDate *string `json:"completion_date,omitempty"`
}

type ProjectResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID      string `json:"project_id"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		ImageCID       string `json:"image_cid,omitempty"`
		Address        string `json:"address,omitempty"`
		CreationDate   string `json:"creation_date"`
		CompletionDate string `json:"completion_date"`
		Owner          string `json:"owner"`
		CreatedAt      string `json:"created_at"`
		ModifiedAt     string `json:"modified_at"`
	} `json:"data"`
}

type DeleteProjectResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID           string   `json:"project_id"`
		RemovedMembers      []string `json:"removed_members,omitempty"`
		RemovedExpenditures []string `json:"removed_expenditures,omitempty"`
	} `json:"data"`
}

type AssignUserRequest struct {
	Account string `json:"account"`
	Role    string `json:"role"`
}

type AssignUserResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID string `json:"project_id"`
		Account   string `json:"account"`
		Role      string `json:"role"`
	} `json:"data"`
}

type UnassignUserRequest struct {
	Account string `json:"account"`
	Role    string `json:"role"`
}

type UnassignUserResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID string `json:"project_id"`
		Account   string `json:"account"`
		Role      string `json:"role"`
	} `json:"data"`
}

type ProjectMembersResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID string `json:"project_id"`
		Members   []struct {
			Account string `json:"account"`
			Role    string `json:"role"`
		} `json:"members"`
	} `json:"data"`
}

type UserProjectsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Account  string   `json:"account"`
		Projects []string `json:"projects"`
	} `json:"data"`
}

type CreateExpenditureRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	SubType        string  `json:"sub_type"`
	BudgetAmount   *uint64 `json:"budget_amount,omitempty"`
	NAICSCode      *uint32 `json:"naics_code,omitempty"`
	JobsMultiplier *uint32 `json:"jobs_multiplier,omitempty"`
	ParentID       string  `json:"parent_id,omitempty"`
}

type ExpenditureResponse struct {
	Status string `json:"status"`
	Data   struct {
		ExpenditureID  string  `json:"expenditure_id"`
		ProjectID      string  `json:"project_id"`
		Name           string  `json:"name"`
		Type           string  `json:"type"`
		SubType        string  `json:"sub_type"`
		BudgetAmount   *uint64 `json:"budget_amount,omitempty"`
		NAICSCode      *uint32 `json:"naics_code,omitempty"`
		JobsMultiplier *uint32 `json:"jobs_multiplier,omitempty"`
		ParentID       string  `json:"parent_id,omitempty"`
		CreatedAt      string  `json:"created_at"`
	} `json:"data"`
}

type ProjectExpendituresResponse struct {
	Status string `json:"status"`
	Data   struct {
		ProjectID    string `json:"project_id"`
		Expenditures []struct {
			ExpenditureID  string  `json:"expenditure_id"`
			Name           string  `json:"name"`
			Type           string  `json:"type"`
			SubType        string  `json:"sub_type"`
			BudgetAmount   *uint64 `json:"budget_amount,omitempty"`
			NAICSCode      *uint32 `json:"naics_code,omitempty"`
			JobsMultiplier *uint32 `json:"jobs_multiplier,omitempty"`
			ParentID       string  `json:"parent_id,omitempty"`
		} `json:"expenditures"`
	} `json:"data"`
}
