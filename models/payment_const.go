package models

import "github.com/pkg/errors"

type PaymentDistributionStatus string

const (
	PaymentDistributionStatusPending   PaymentDistributionStatus = "pending"
	PaymentDistributionStatusCompleted PaymentDistributionStatus = "completed"
	PaymentDistributionStatusPaid      PaymentDistributionStatus = "paid"
)

// PaymentDistributionStatusClaimed синоним completed, встречается во внешних системах
const PaymentDistributionStatusClaimed PaymentDistributionStatus = "claimed"

// completed -> completed: заявка и расчет в блокчейне выставляют completed независимо друг от друга
var paymentDistributionTransitions = map[PaymentDistributionStatus][]PaymentDistributionStatus{
	PaymentDistributionStatusPending:   {PaymentDistributionStatusCompleted},
	PaymentDistributionStatusCompleted: {PaymentDistributionStatusCompleted, PaymentDistributionStatusPaid},
	PaymentDistributionStatusPaid:      {},
}

var paymentDistributionStatuses = []PaymentDistributionStatus{
	PaymentDistributionStatusPending,
	PaymentDistributionStatusCompleted,
	PaymentDistributionStatusPaid,
}

// PaymentDistributionStatusesTo статусы, из которых разрешен переход в target, включая синоним claimed.
// Используется как условие в запросах на изменение статуса
func PaymentDistributionStatusesTo(target PaymentDistributionStatus) []PaymentDistributionStatus {
	result := []PaymentDistributionStatus{}
	for _, status := range paymentDistributionStatuses {
		if !status.CanMoveTo(target) {
			continue
		}
		result = append(result, status)
		if status == PaymentDistributionStatusCompleted {
			result = append(result, PaymentDistributionStatusClaimed)
		}
	}
	return result
}

// Normalize приводит claimed к completed
func (s PaymentDistributionStatus) Normalize() PaymentDistributionStatus {
	if s == PaymentDistributionStatusClaimed {
		return PaymentDistributionStatusCompleted
	}
	return s
}

func (s PaymentDistributionStatus) Validate() error {
	if _, exist := paymentDistributionTransitions[s.Normalize()]; !exist {
		return errors.Errorf("неизвестный статус выплаты: %v", s)
	}
	return nil
}

func (s PaymentDistributionStatus) CanMoveTo(newStatus PaymentDistributionStatus) bool {
	for _, allowed := range paymentDistributionTransitions[s.Normalize()] {
		if allowed == newStatus.Normalize() {
			return true
		}
	}
	return false
}

// IsSettlementSuccess единственный статус, который принимается от наблюдателя блокчейна
func (s PaymentDistributionStatus) IsSettlementSuccess() bool {
	return s == PaymentDistributionStatusCompleted
}

type PaymentRole string

const (
	PaymentRoleReferrer      PaymentRole = "referrer"
	PaymentRoleCandidate     PaymentRole = "candidate"
	PaymentRoleHiringManager PaymentRole = "hiring_manager"
	PaymentRolePlatformFee   PaymentRole = "platform_fee"
)

func (r PaymentRole) Validate() error {
	for _, role := range paymentRoles {
		if role == r {
			return nil
		}
	}
	return errors.Errorf("неизвестная роль получателя выплаты: %v", r)
}

var paymentRoles = []PaymentRole{
	PaymentRoleReferrer,
	PaymentRoleCandidate,
	PaymentRoleHiringManager,
	PaymentRolePlatformFee,
}

// IsClaimable доля платформы не может быть запрошена получателем
func (r PaymentRole) IsClaimable() bool {
	return r != PaymentRolePlatformFee
}

// ClaimablePaymentRoles роли, выплату по которым получатель запрашивает сам
func ClaimablePaymentRoles() []PaymentRole {
	result := []PaymentRole{}
	for _, role := range paymentRoles {
		if role.IsClaimable() {
			result = append(result, role)
		}
	}
	return result
}

type RecipientType string

const (
	RecipientTypeUser         RecipientType = "user"
	RecipientTypeTalent       RecipientType = "talent"
	RecipientTypeOrganization RecipientType = "organization"
	RecipientTypePlatform     RecipientType = "platform"
)

func (r RecipientType) Validate() error {
	switch r {
	case RecipientTypeUser, RecipientTypeTalent, RecipientTypeOrganization, RecipientTypePlatform:
		return nil
	}
	return errors.Errorf("неизвестный тип получателя выплаты: %v", r)
}
