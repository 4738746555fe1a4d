package referralapimodels

import (
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"net/mail"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

type ReferralData struct {
	CandidateName  string        `json:"candidate_name"`
	CandidateEmail string        `json:"candidate_email"`
	CandidatePhone string        `json:"candidate_phone"`
	Recommendation string        `json:"recommendation"`
	Signature      SignatureData `json:"signature"` // подпись для web3 аттестации, не проверяется
}

type SignatureData struct {
	SignerAddress string `json:"signer_address"`
	Signature     string `json:"signature"`
	SignedMessage string `json:"signed_message"`
	ChainID       int64  `json:"chain_id"`
}

func (s SignatureData) IsEmpty() bool {
	return s.SignerAddress == "" && s.Signature == "" && s.SignedMessage == ""
}

func (s SignatureData) Validate() error {
	if s.IsEmpty() {
		return nil
	}
	if !common.IsHexAddress(s.SignerAddress) {
		return errors.New("некорректный адрес подписанта")
	}
	if _, err := hexutil.Decode(s.Signature); err != nil {
		return errors.New("подпись должна быть hex строкой с префиксом 0x")
	}
	if s.ChainID < 0 {
		return errors.New("некорректный chain id")
	}
	return nil
}

// NormalizedSignerAddress адрес в формате EIP-55
func (s SignatureData) NormalizedSignerAddress() string {
	if s.SignerAddress == "" {
		return ""
	}
	return common.HexToAddress(s.SignerAddress).Hex()
}

func (r ReferralData) Validate() error {
	if strings.TrimSpace(r.CandidateName) == "" {
		return errors.New("не указано имя кандидата")
	}
	if r.CandidateEmail == "" && r.CandidatePhone == "" {
		return errors.New("не указаны контакты кандидата")
	}
	if r.CandidateEmail != "" {
		if _, err := mail.ParseAddress(r.CandidateEmail); err != nil {
			return errors.New("некорректный email кандидата")
		}
	}
	return r.Signature.Validate()
}

type ReferralView struct {
	ID             string                   `json:"id"`
	JobID          string                   `json:"job_id"`
	ReferrerID     string                   `json:"referrer_id"`
	CandidateName  string                   `json:"candidate_name"`
	CandidateEmail string                   `json:"candidate_email,omitempty"`
	CandidatePhone string                   `json:"candidate_phone,omitempty"`
	Recommendation string                   `json:"recommendation,omitempty"`
	Status         models.JobReferralStatus `json:"status"`
	Signature      *SignatureData           `json:"signature,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

func ReferralConvert(rec dbmodels.JobReferral) ReferralView {
	result := ReferralView{
		ID:             rec.ID,
		JobID:          rec.JobID,
		ReferrerID:     rec.ReferrerID,
		CandidateName:  rec.CandidateName,
		CandidateEmail: rec.CandidateEmail,
		CandidatePhone: rec.CandidatePhone,
		Recommendation: rec.Recommendation,
		Status:         rec.Status,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.SignerAddress != "" {
		result.Signature = &SignatureData{
			SignerAddress: rec.SignerAddress,
			Signature:     rec.Signature,
			SignedMessage: rec.SignedMessage,
			ChainID:       rec.ChainID,
		}
	}
	return result
}

func ReferralListConvert(list []dbmodels.JobReferral) []ReferralView {
	result := make([]ReferralView, 0, len(list))
	for _, rec := range list {
		result = append(result, ReferralConvert(rec))
	}
	return result
}

type LinkView struct {
	Token      string    `json:"token"`
	JobID      string    `json:"job_id"`
	ReferrerID string    `json:"referrer_id"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func LinkConvert(rec dbmodels.ReferralLink) LinkView {
	return LinkView{
		Token:      rec.ID,
		JobID:      rec.JobID,
		ReferrerID: rec.ReferrerID,
		CreatedAt:  rec.CreatedAt,
	}
}
