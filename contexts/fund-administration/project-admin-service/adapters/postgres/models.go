package postgresadapter

import (
	"encoding/json"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
)

type scopeModel struct {
	ID      int    `gorm:"column:id;primaryKey"`
	ScopeID string `gorm:"column:scope_id"`
}

func (scopeModel) TableName() string { return "fund_admin_global_scope" }

type userModel struct {
	Account    string    `gorm:"column:account;primaryKey"`
	Name       string    `gorm:"column:name"`
	ImageCID   string    `gorm:"column:image_cid"`
	Email      string    `gorm:"column:email"`
	Documents  []byte    `gorm:"column:documents"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	ModifiedBy string    `gorm:"column:modified_by"`
	ModifiedAt time.Time `gorm:"column:modified_at"`
}

func (userModel) TableName() string { return "fund_admin_users" }

func userModelFromEntity(in entities.UserProfile) userModel {
	documents, _ := json.Marshal(in.Documents)
	return userModel{
		Account:    in.Account,
		Name:       in.Name,
		ImageCID:   in.ImageCID,
		Email:      in.Email,
		Documents:  documents,
		CreatedBy:  in.Audit.CreatedBy,
		CreatedAt:  in.Audit.CreatedAt,
		ModifiedBy: in.Audit.ModifiedBy,
		ModifiedAt: in.Audit.ModifiedAt,
	}
}

func (m userModel) toEntity() entities.UserProfile {
	var documents []entities.Document
	if len(m.Documents) > 0 {
		_ = json.Unmarshal(m.Documents, &documents)
	}
	return entities.UserProfile{
		Account:   m.Account,
		Name:      m.Name,
		ImageCID:  m.ImageCID,
		Email:     m.Email,
		Documents: documents,
		Audit: entities.AuditTrail{
			CreatedBy:  m.CreatedBy,
			CreatedAt:  m.CreatedAt,
			ModifiedBy: m.ModifiedBy,
			ModifiedAt: m.ModifiedAt,
		},
	}
}

type projectModel struct {
	ProjectID      string    `gorm:"column:project_id;primaryKey"`
	Title          string    `gorm:"column:title"`
	Description    string    `gorm:"column:description"`
	ImageCID       string    `gorm:"column:image_cid"`
	Address        string    `gorm:"column:address"`
	CreationDate   time.Time `gorm:"column:creation_date"`
	CompletionDate time.Time `gorm:"column:completion_date"`
	Owner          string    `gorm:"column:owner"`
	CreatedBy      string    `gorm:"column:created_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	ModifiedBy     string    `gorm:"column:modified_by"`
	ModifiedAt     time.Time `gorm:"column:modified_at"`
}

func (projectModel) TableName() string { return "fund_admin_projects" }

func projectModelFromEntity(in entities.Project) projectModel {
	return projectModel{
		ProjectID:      in.ProjectID,
		Title:          in.Title,
		Description:    in.Description,
		ImageCID:       in.ImageCID,
		Address:        in.Address,
		CreationDate:   in.CreationDate,
		CompletionDate: in.CompletionDate,
		Owner:          in.Owner,
		CreatedBy:      in.Audit.CreatedBy,
		CreatedAt:      in.Audit.CreatedAt,
		ModifiedBy:     in.Audit.ModifiedBy,
		ModifiedAt:     in.Audit.ModifiedAt,
	}
}

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		ImageCID:       m.ImageCID,
		Address:        m.Address,
		CreationDate:   m.CreationDate,
		CompletionDate: m.CompletionDate,
		Owner:          m.Owner,
		Audit: entities.AuditTrail{
			CreatedBy:  m.CreatedBy,
			CreatedAt:  m.CreatedAt,
			ModifiedBy: m.ModifiedBy,
			ModifiedAt: m.ModifiedAt,
		},
	}
}

type membershipModel struct {
	ProjectID string    `gorm:"column:project_id;primaryKey"`
	Account   string    `gorm:"column:account;primaryKey"`
	Role      string    `gorm:"column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (membershipModel) TableName() string { return "fund_admin_memberships" }

type administratorModel struct {
	Account   string    `gorm:"column:account;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (administratorModel) TableName() string { return "fund_admin_administrators" }

type expenditureModel struct {
	ExpenditureID  string    `gorm:"column:expenditure_id;primaryKey"`
	ProjectID      string    `gorm:"column:project_id;index"`
	Name           string    `gorm:"column:name"`
	Type           string    `gorm:"column:type"`
	SubType        string    `gorm:"column:sub_type"`
	BudgetAmount   *uint64   `gorm:"column:budget_amount"`
	NAICSCode      *uint32   `gorm:"column:naics_code"`
	JobsMultiplier *uint32   `gorm:"column:jobs_multiplier"`
	ParentID       string    `gorm:"column:parent_id"`
	CreatedBy      string    `gorm:"column:created_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	ModifiedBy     string    `gorm:"column:modified_by"`
	ModifiedAt     time.Time `gorm:"column:modified_at"`
}

func (expenditureModel) TableName() string { return "fund_admin_expenditures" }

func expenditureModelFromEntity(in entities.Expenditure) expenditureModel {
	return expenditureModel{
		ExpenditureID:  in.ExpenditureID,
		ProjectID:      in.ProjectID,
		Name:           in.Name,
		Type:           in.Type,
		SubType:        in.SubType,
		BudgetAmount:   in.BudgetAmount,
		NAICSCode:      in.NAICSCode,
		JobsMultiplier: in.JobsMultiplier,
		ParentID:       in.ParentID,
		CreatedBy:      in.Audit.CreatedBy,
		CreatedAt:      in.Audit.CreatedAt,
		ModifiedBy:     in.Audit.ModifiedBy,
		ModifiedAt:     in.Audit.ModifiedAt,
	}
}

func (m expenditureModel) toEntity() entities.Expenditure {
	return entities.Expenditure{
		ExpenditureID:  m.ExpenditureID,
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Type:           m.Type,
		SubType:        m.SubType,
		BudgetAmount:   m.BudgetAmount,
		NAICSCode:      m.NAICSCode,
		JobsMultiplier: m.JobsMultiplier,
		ParentID:       m.ParentID,
		Audit: entities.AuditTrail{
			CreatedBy:  m.CreatedBy,
			CreatedAt:  m.CreatedAt,
			ModifiedBy: m.ModifiedBy,
			ModifiedAt: m.ModifiedAt,
		},
	}
}

type outboxModel struct {
	ID        string     `gorm:"column:id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload"`
	Status    string     `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "fund_admin_outbox" }
