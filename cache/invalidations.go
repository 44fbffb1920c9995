package cache

// Mutation identifies a write operation for cache-dependency purposes.
type Mutation string

const (
	MutationCreateProgram Mutation = "create_program"
	MutationUpdateProgram Mutation = "update_program"
	MutationDeleteProgram Mutation = "delete_program"
	MutationCreateTask    Mutation = "create_task"
	MutationUpdateTask    Mutation = "update_task"
	MutationDeleteTask    Mutation = "delete_task"
	MutationImportTasks   Mutation = "import_tasks"
	MutationInviteProfile Mutation = "invite_profile"
	MutationUpdateProfile Mutation = "update_profile"
	MutationDeleteProfile Mutation = "delete_profile"
)

// AllMutations enumerates every mutation; used by the coverage test.
var AllMutations = []Mutation{
	MutationCreateProgram,
	MutationUpdateProgram,
	MutationDeleteProgram,
	MutationCreateTask,
	MutationUpdateTask,
	MutationDeleteTask,
	MutationImportTasks,
	MutationInviteProfile,
	MutationUpdateProfile,
	MutationDeleteProfile,
}

// Invalidations declares, per mutation, which cached entities go stale.
// Program deletion cascades to tasks, so it flushes both. Profile changes
// flush tasks too because task lists carry assignee display data.
var Invalidations = map[Mutation][]Entity{
	MutationCreateProgram: {EntityPrograms},
	MutationUpdateProgram: {EntityPrograms},
	MutationDeleteProgram: {EntityPrograms, EntityTasks},
	MutationCreateTask:    {EntityTasks},
	MutationUpdateTask:    {EntityTasks},
	MutationDeleteTask:    {EntityTasks},
	MutationImportTasks:   {EntityTasks},
	MutationInviteProfile: {EntityProfiles},
	MutationUpdateProfile: {EntityProfiles, EntityTasks},
	MutationDeleteProfile: {EntityProfiles, EntityTasks},
}
