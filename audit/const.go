// Package audit has the audit rule wire format of AUDIT_ADD_RULE,
// AUDIT_DEL_RULE and AUDIT_LIST_RULES.
package audit

const (
	AUDIT_GET = 1000 + iota
	AUDIT_SET
	AUDIT_LIST
	AUDIT_ADD
	AUDIT_DEL
	AUDIT_USER
	AUDIT_LOGIN
	AUDIT_WATCH_INS
	AUDIT_WATCH_REM
	AUDIT_WATCH_LIST
	AUDIT_SIGNAL_INFO
	AUDIT_ADD_RULE
	AUDIT_DEL_RULE
	AUDIT_LIST_RULES
	AUDIT_TRIM
	AUDIT_MAKE_EQUIV
	AUDIT_TTY_GET
	AUDIT_TTY_SET
	AUDIT_SET_FEATURE
	AUDIT_GET_FEATURE
)

// Rule lists, carried in the rule flags.
const (
	AUDIT_FILTER_USER = iota
	AUDIT_FILTER_TASK
	AUDIT_FILTER_ENTRY
	AUDIT_FILTER_WATCH
	AUDIT_FILTER_EXIT
	AUDIT_FILTER_EXCLUDE
	AUDIT_FILTER_FS
	AUDIT_FILTER_URING_EXIT

	AUDIT_FILTER_PREPEND = 0x10
)

const (
	AUDIT_NEVER = iota
	AUDIT_POSSIBLE
	AUDIT_ALWAYS
)

const (
	AUDIT_MAX_FIELDS   = 64
	AUDIT_MAX_KEY_LEN  = 256
	AUDIT_BITMASK_SIZE = 64
)

// Rule fields.
const (
	AUDIT_PID = iota
	AUDIT_UID
	AUDIT_EUID
	AUDIT_SUID
	AUDIT_FSUID
	AUDIT_GID
	AUDIT_EGID
	AUDIT_SGID
	AUDIT_FSGID
	AUDIT_LOGINUID
	AUDIT_PERS
	AUDIT_ARCH
	AUDIT_MSGTYPE
	AUDIT_SUBJ_USER
	AUDIT_SUBJ_ROLE
	AUDIT_SUBJ_TYPE
	AUDIT_SUBJ_SEN
	AUDIT_SUBJ_CLR
	AUDIT_PPID
	AUDIT_OBJ_USER
	AUDIT_OBJ_ROLE
	AUDIT_OBJ_TYPE
	AUDIT_OBJ_LEV_LOW
	AUDIT_OBJ_LEV_HIGH
	AUDIT_LOGINUID_SET
	AUDIT_SESSIONID
	AUDIT_FSTYPE
)

const (
	AUDIT_DEVMAJOR = 100 + iota
	AUDIT_DEVMINOR
	AUDIT_INODE
	AUDIT_EXIT
	AUDIT_SUCCESS
	AUDIT_WATCH
	AUDIT_PERM
	AUDIT_DIR
	AUDIT_FILETYPE
	AUDIT_OBJ_UID
	AUDIT_OBJ_GID
	AUDIT_FIELD_COMPARE
	AUDIT_EXE
	AUDIT_SADDR_FAM
)

const (
	AUDIT_ARG0 = 200 + iota
	AUDIT_ARG1
	AUDIT_ARG2
	AUDIT_ARG3
)

const AUDIT_FILTERKEY = 210

// Field operators, carried in fieldflags.
const (
	AUDIT_BIT_MASK              = 0x08000000
	AUDIT_LESS_THAN             = 0x10000000
	AUDIT_GREATER_THAN          = 0x20000000
	AUDIT_NOT_EQUAL             = 0x30000000
	AUDIT_EQUAL                 = 0x40000000
	AUDIT_BIT_TEST              = AUDIT_BIT_MASK | AUDIT_EQUAL
	AUDIT_LESS_THAN_OR_EQUAL    = AUDIT_LESS_THAN | AUDIT_EQUAL
	AUDIT_GREATER_THAN_OR_EQUAL = AUDIT_GREATER_THAN | AUDIT_EQUAL
	AUDIT_OPERATORS             = AUDIT_EQUAL | AUDIT_NOT_EQUAL | AUDIT_BIT_MASK
)

var fieldNames = map[uint32]string{
	AUDIT_PID:           "pid",
	AUDIT_UID:           "uid",
	AUDIT_EUID:          "euid",
	AUDIT_SUID:          "suid",
	AUDIT_FSUID:         "fsuid",
	AUDIT_GID:           "gid",
	AUDIT_EGID:          "egid",
	AUDIT_SGID:          "sgid",
	AUDIT_FSGID:         "fsgid",
	AUDIT_LOGINUID:      "auid",
	AUDIT_PERS:          "pers",
	AUDIT_ARCH:          "arch",
	AUDIT_MSGTYPE:       "msgtype",
	AUDIT_SUBJ_USER:     "subj_user",
	AUDIT_SUBJ_ROLE:     "subj_role",
	AUDIT_SUBJ_TYPE:     "subj_type",
	AUDIT_SUBJ_SEN:      "subj_sen",
	AUDIT_SUBJ_CLR:      "subj_clr",
	AUDIT_PPID:          "ppid",
	AUDIT_OBJ_USER:      "obj_user",
	AUDIT_OBJ_ROLE:      "obj_role",
	AUDIT_OBJ_TYPE:      "obj_type",
	AUDIT_OBJ_LEV_LOW:   "obj_lev_low",
	AUDIT_OBJ_LEV_HIGH:  "obj_lev_high",
	AUDIT_LOGINUID_SET:  "loginuid_set",
	AUDIT_SESSIONID:     "sessionid",
	AUDIT_FSTYPE:        "fstype",
	AUDIT_DEVMAJOR:      "devmajor",
	AUDIT_DEVMINOR:      "devminor",
	AUDIT_INODE:         "inode",
	AUDIT_EXIT:          "exit",
	AUDIT_SUCCESS:       "success",
	AUDIT_WATCH:         "path",
	AUDIT_PERM:          "perm",
	AUDIT_DIR:           "dir",
	AUDIT_FILETYPE:      "filetype",
	AUDIT_OBJ_UID:       "obj_uid",
	AUDIT_OBJ_GID:       "obj_gid",
	AUDIT_FIELD_COMPARE: "field_compare",
	AUDIT_EXE:           "exe",
	AUDIT_SADDR_FAM:     "saddr_fam",
	AUDIT_ARG0:          "a0",
	AUDIT_ARG1:          "a1",
	AUDIT_ARG2:          "a2",
	AUDIT_ARG3:          "a3",
	AUDIT_FILTERKEY:     "key",
}

var operatorNames = map[uint32]string{
	AUDIT_EQUAL:                 "=",
	AUDIT_NOT_EQUAL:             "!=",
	AUDIT_LESS_THAN:             "<",
	AUDIT_GREATER_THAN:          ">",
	AUDIT_LESS_THAN_OR_EQUAL:    "<=",
	AUDIT_GREATER_THAN_OR_EQUAL: ">=",
	AUDIT_BIT_MASK:              "&",
	AUDIT_BIT_TEST:              "&=",
}
