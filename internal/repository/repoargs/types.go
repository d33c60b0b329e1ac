package repoargs

type RepositoryName string

const (
	OrganizationRepoName RepositoryName = "organization"
	VendorRepoName       RepositoryName = "vendor"
	UserRepoName         RepositoryName = "user"
	OrderRepoName        RepositoryName = "order"
	AllocationRepoName   RepositoryName = "allocation"
)

// BatchExecQueryRow колбек результата батч-запроса: индекс элемента и его ошибка.
type BatchExecQueryRow func(i int, err error)
