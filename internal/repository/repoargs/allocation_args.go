package repoargs

import "time"

// UnallocatedReportQuery параметры отчета по нераспределенным деньгам организации.
// IncludeNonparticipants false (дефолт) оставляет только юзеров, уже участвующих
// хоть в одном заказе на дату.
type UnallocatedReportQuery struct {
	OrganizationID         int64
	Date                   time.Time
	IncludeNonparticipants bool
}
