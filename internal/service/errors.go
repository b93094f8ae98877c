package service

import "errors"

// Lifecycle and validation errors surfaced by the task service. Handlers map
// these to HTTP statuses; they are never collapsed into a generic failure.
var (
	// ErrNotTaskOwner is returned when an employee submits work against a
	// task assigned to someone else.
	ErrNotTaskOwner = errors.New("task does not belong to this employee")

	// ErrTaskCompleted is returned when work is submitted against a task an
	// admin has already completed.
	ErrTaskCompleted = errors.New("task already completed by admin")

	// ErrNotProcessing is returned when an admin tries to complete a task
	// that has no submission under review.
	ErrNotProcessing = errors.New("task must be in processing status to complete")

	// ErrEmptyRemark is returned when a submission carries no remark.
	ErrEmptyRemark = errors.New("remark is required")

	// ErrEmptyDescription is returned when a task is assigned without a
	// description.
	ErrEmptyDescription = errors.New("task description is required")

	// ErrNoEmployees is returned when assign-to-all finds no employees.
	ErrNoEmployees = errors.New("no employees found")

	// ErrEmptyGroup is returned when assign-to-group targets a group with no
	// member snapshot.
	ErrEmptyGroup = errors.New("group has no members")
)
